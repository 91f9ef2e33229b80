// Package summary renders run outcomes, run lists and plans for the terminal.
package summary

import (
	"errors"
	"io"

	"github.com/bnema/smartworker/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

type renderReadyMsg struct{}

type model struct {
	view   func(styles) string
	styles styles
	output string
}

func (m model) Init() tea.Cmd {
	return func() tea.Msg {
		return renderReadyMsg{}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case renderReadyMsg:
		m.output = m.view(m.styles)
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.output
}

func render(view func(styles) string) (string, error) {
	p := tea.NewProgram(
		model{view: view, styles: newStyles()},
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}

func RenderRun(run domain.Run, opts RenderOptions) (string, error) {
	return render(func(s styles) string { return runView(run, opts, s) })
}

func RenderRuns(runs []domain.Run, opts RenderOptions) (string, error) {
	return render(func(s styles) string { return runsView(runs, opts, s) })
}

func RenderPlan(prompt string, plan []string) (string, error) {
	return render(func(s styles) string { return planView(prompt, plan, s) })
}
