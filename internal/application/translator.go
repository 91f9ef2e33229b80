package application

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bnema/smartworker/internal/domain"
	"gopkg.in/yaml.v3"
)

// ParseContract accepts the JSON wire form (a task array or a single task
// object) and falls back to YAML for anything else.
func ParseContract(raw string) (domain.Contract, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty document", domain.ErrMalformedContract)
	}

	var contract domain.Contract
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal([]byte(trimmed), &contract); err != nil {
			return nil, fmt.Errorf("%w: decode json: %v", domain.ErrMalformedContract, err)
		}
	case '{':
		var task domain.Task
		if err := json.Unmarshal([]byte(trimmed), &task); err != nil {
			return nil, fmt.Errorf("%w: decode json: %v", domain.ErrMalformedContract, err)
		}
		contract = domain.Contract{task}
	default:
		if err := yaml.Unmarshal([]byte(trimmed), &contract); err != nil {
			return nil, fmt.Errorf("%w: decode yaml: %v", domain.ErrMalformedContract, err)
		}
	}

	if err := contract.Validate(); err != nil {
		return nil, err
	}

	return contract, nil
}

// Translate renders the first task of a serialized contract as a task prompt.
func Translate(raw string) (string, error) {
	contract, err := ParseContract(raw)
	if err != nil {
		return "", err
	}

	return TranslateContract(contract), nil
}

func TranslateContract(contract domain.Contract) string {
	task := contract[0]
	action := task.Action

	columns := make([]string, 0, len(action.OutputColumns))
	for _, column := range action.OutputColumns {
		columns = append(columns, fmt.Sprintf("%s (%s)", column.Name, column.Description))
	}

	var b strings.Builder
	b.WriteString(strings.TrimSpace(action.Prompt))
	if format := strings.TrimSpace(action.OutputFormat); format != "" {
		fmt.Fprintf(&b, " The output should be in %s format and contain the following fields: %s.", format, strings.Join(columns, ", "))
	} else {
		fmt.Fprintf(&b, " The output should contain the following fields: %s.", strings.Join(columns, ", "))
	}
	fmt.Fprintf(&b, " Acceptance criteria: %s", strings.TrimSpace(task.ContractCompleteness.AcceptanceCriteria))
	if !strings.HasSuffix(b.String(), ".") {
		b.WriteString(".")
	}
	if source := strings.TrimSpace(action.SourceFile); source != "" {
		fmt.Fprintf(&b, " Source file: %s.", source)
	}

	return b.String()
}
