package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zdunecki/lsdomain/pkg/certs"
	"github.com/zdunecki/lsdomain/pkg/container"
	"github.com/zdunecki/lsdomain/pkg/dns"
)

type wizardStep int

const (
	stepContainer wizardStep = iota
	stepDomain
	stepBindMode
	stepConfirm
	stepDone
)

// WizardOptions holds what the wizard collected.
type WizardOptions struct {
	ContainerName string
	Domain        string
	BindMode      container.BindMode
}

type optionItem struct {
	title string
	desc  string
	value string
}

func (i optionItem) Title() string       { return i.title }
func (i optionItem) Description() string { return i.desc }
func (i optionItem) FilterValue() string { return i.title }

type wizardModel struct {
	step          wizardStep
	list          list.Model
	input         textinput.Model
	opts          WizardOptions
	validationErr string
	cancelled     bool
	width         int
	height        int
}

var (
	styleTitle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63"))
	styleSubtitle  = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	styleError     = lipgloss.NewStyle().Foreground(lipgloss.Color("160")).Bold(true)
	stylePrompt    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	styleSummary   = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	styleHighlight = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

// RunWizard asks for the container service and domain, then hands them to run.
// Nothing runs when the user cancels.
func RunWizard(run func(WizardOptions) error) error {
	prog := tea.NewProgram(newWizardModel(), tea.WithAltScreen())
	result, err := prog.Run()
	if err != nil {
		return err
	}

	finalModel, ok := result.(wizardModel)
	if !ok {
		return fmt.Errorf("wizard failed to return results")
	}
	if finalModel.cancelled || finalModel.step != stepDone {
		return nil
	}
	return run(finalModel.opts)
}

func newWizardModel() wizardModel {
	var m wizardModel
	m.setInput(stepContainer, "my-container-service")
	return m
}

func newList(title string, items []list.Item) list.Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = true
	delegate.Styles.NormalTitle = delegate.Styles.NormalTitle.Foreground(lipgloss.Color("252"))
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(lipgloss.Color("205")).Bold(true)
	delegate.Styles.NormalDesc = delegate.Styles.NormalDesc.Foreground(lipgloss.Color("244")).Italic(true)
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(lipgloss.Color("212")).Italic(true)
	l := list.New(items, delegate, 0, 0)
	l.Title = styleTitle.Render(title)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowPagination(false)
	return l
}

func (m wizardModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m wizardModel) inputStep() bool {
	return m.step == stepContainer || m.step == stepDomain
}

func (m wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height-4)
		if m.inputStep() {
			m.input.Width = msg.Width - 4
		}
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.cancelled = true
			return m, tea.Quit
		case "q":
			if !m.inputStep() {
				m.cancelled = true
				return m, tea.Quit
			}
		case "enter":
			if m.inputStep() {
				return m.handleInputSubmit()
			}
			return m.handleSelection()
		}
	}

	var cmd tea.Cmd
	if m.inputStep() {
		m.input, cmd = m.input.Update(msg)
	} else {
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

func (m wizardModel) View() string {
	if m.step == stepDone {
		return ""
	}

	var header string
	if m.validationErr != "" {
		header = styleError.Render("Validation: "+m.validationErr) + "\n\n"
	}

	switch m.step {
	case stepContainer:
		return header + styleSubtitle.Render("Enter the name of the container service:") + "\n\n" + m.input.View() + "\n\n" + stylePrompt.Render("Press Enter to continue.")
	case stepDomain:
		return header + styleSubtitle.Render("Enter the domain to attach:") + "\n" + styleSummary.Render("Example: app.your-domain.com") + "\n\n" + m.input.View() + "\n\n" + stylePrompt.Render("Press Enter to continue.")
	case stepConfirm:
		return header + styleSummary.Render(m.confirmSummary()) + "\n\n" + m.list.View() + "\n\n" + stylePrompt.Render("Use Enter to confirm, q to quit.")
	default:
		return header + m.list.View() + "\n\n" + stylePrompt.Render("Use ↑/↓ to move, Enter to select, q to quit.")
	}
}

func (m wizardModel) handleSelection() (tea.Model, tea.Cmd) {
	item, ok := m.list.SelectedItem().(optionItem)
	if !ok {
		return m, nil
	}

	switch m.step {
	case stepBindMode:
		m.opts.BindMode = container.BindMode(item.value)
		m.list = newList("Confirm", confirmItems())
		m.applyListSizeWithOffset(m.confirmSummaryLineCount() + 4)
		m.step = stepConfirm
	case stepConfirm:
		if item.value == "attach" {
			m.step = stepDone
		} else {
			m.cancelled = true
		}
		return m, tea.Quit
	}

	return m, nil
}

func (m wizardModel) handleInputSubmit() (tea.Model, tea.Cmd) {
	value := strings.TrimSpace(m.input.Value())
	m.validationErr = ""

	switch m.step {
	case stepContainer:
		if value == "" {
			m.validationErr = "container name is required"
			return m, nil
		}
		m.opts.ContainerName = value
		m.setInput(stepDomain, "app.example.com")
	case stepDomain:
		if _, _, err := dns.Split(value); err != nil {
			m.validationErr = err.Error()
			return m, nil
		}
		m.opts.Domain = value
		m.list = newList("How should the domain be bound?", bindModeItems())
		m.applyListSize()
		m.step = stepBindMode
	}

	return m, nil
}

func (m *wizardModel) setInput(step wizardStep, placeholder string) {
	m.step = step
	m.validationErr = ""
	m.input = textinput.New()
	m.input.Prompt = stylePrompt.Render("> ")
	m.input.Placeholder = placeholder
	m.input.Focus()
	if m.width > 0 {
		m.input.Width = m.width - 4
	}
}

func (m *wizardModel) applyListSize() {
	if m.width > 0 && m.height > 0 {
		m.list.SetSize(m.width, m.height-4)
	}
}

func (m *wizardModel) applyListSizeWithOffset(offset int) {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	height := m.height - offset
	if height < 4 {
		height = 4
	}
	m.list.SetSize(m.width, height)
}

func (m wizardModel) confirmSummaryLineCount() int {
	return strings.Count(m.confirmSummary(), "\n") + 1
}

func bindModeItems() []list.Item {
	return []list.Item{
		optionItem{title: "Replace", desc: "Serve only this domain on the container service", value: string(container.BindReplace)},
		optionItem{title: "Merge", desc: "Keep the domains the service already serves", value: string(container.BindMerge)},
	}
}

func confirmItems() []list.Item {
	return []list.Item{
		optionItem{title: "Attach now", desc: "Create the certificate and DNS records, then bind the domain", value: "attach"},
		optionItem{title: "Cancel", desc: "Exit without changes", value: "cancel"},
	}
}

func (m wizardModel) confirmSummary() string {
	record, zone, _ := dns.Split(m.opts.Domain)
	lines := []string{
		styleHighlight.Render("Review your selections"),
		fmt.Sprintf("Container:   %s", m.opts.ContainerName),
		fmt.Sprintf("Domain:      %s", m.opts.Domain),
		fmt.Sprintf("Zone:        %s", zone),
		fmt.Sprintf("Record:      %s", record),
		fmt.Sprintf("Certificate: %s", certs.NameFromDomain(m.opts.Domain)),
		fmt.Sprintf("Bind mode:   %s", m.opts.BindMode),
	}
	return strings.Join(lines, "\n")
}
