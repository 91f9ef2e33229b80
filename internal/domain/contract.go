package domain

import (
	"fmt"
	"strings"
)

// Contract is the ordered task list that drives one execution. Only the first
// task is translated into the working prompt; the rest ride along unchanged.
type Contract []Task

type Task struct {
	Action                Action                `json:"Action" yaml:"Action"`
	Validation            string                `json:"Validation" yaml:"Validation"`
	WorkerRequirements    WorkerRequirements    `json:"WorkerRequirements" yaml:"WorkerRequirements"`
	ValidatorRequirements ValidatorRequirements `json:"ValidatorRequirements" yaml:"ValidatorRequirements"`
	ContractCompleteness  Completeness          `json:"ContractCompleteness" yaml:"ContractCompleteness"`
	ContractFail          string                `json:"ContractFail" yaml:"ContractFail"`
	ContractValue         ContractValue         `json:"ContractValue" yaml:"ContractValue"`
}

type Action struct {
	Prompt        string         `json:"Prompt" yaml:"Prompt"`
	OutputColumns []OutputColumn `json:"OutputColumns" yaml:"OutputColumns"`
	OutputFormat  string         `json:"OutputFormat" yaml:"OutputFormat"`
	SourceFile    string         `json:"SourceFile,omitempty" yaml:"SourceFile,omitempty"`
}

type OutputColumn struct {
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

type WorkerRequirements struct {
	Skills []string `json:"Skills" yaml:"Skills"`
}

type ValidatorRequirements struct {
	Certifications []string `json:"Certifications" yaml:"Certifications"`
}

type Completeness struct {
	AcceptanceCriteria  string `json:"AcceptanceCriteria" yaml:"AcceptanceCriteria"`
	ErrorAcceptance     string `json:"ErrorAcceptance" yaml:"ErrorAcceptance"`
	AmbiguityAcceptance string `json:"AmbiguityAcceptance" yaml:"AmbiguityAcceptance"`
}

type ContractValue struct {
	Budget string `json:"Budget" yaml:"Budget"`
}

func (c Contract) Validate() error {
	if len(c) == 0 {
		return fmt.Errorf("%w: contract has no tasks", ErrMalformedContract)
	}

	for i, task := range c {
		if err := task.Validate(); err != nil {
			return fmt.Errorf("%w: task %d: %v", ErrMalformedContract, i, err)
		}
	}

	return nil
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.Action.Prompt) == "" {
		return fmt.Errorf("Action.Prompt is required")
	}
	if len(t.Action.OutputColumns) == 0 {
		return fmt.Errorf("Action.OutputColumns is required")
	}
	for i, column := range t.Action.OutputColumns {
		if strings.TrimSpace(column.Name) == "" {
			return fmt.Errorf("Action.OutputColumns[%d].name is required", i)
		}
	}
	if strings.TrimSpace(t.ContractCompleteness.AcceptanceCriteria) == "" {
		return fmt.Errorf("ContractCompleteness.AcceptanceCriteria is required")
	}

	return nil
}
