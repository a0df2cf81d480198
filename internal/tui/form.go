package tui

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/cardbinder/cardbinder/pkg/binder"
)

type formField int

const (
	fieldSet formField = iota
	fieldName
	fieldNumber
	fieldParallel
	fieldSerial
	fieldSource
	fieldPaid
	fieldPaidDate
	fieldValue
	fieldNotes
	numFields
)

var fieldLabels = [numFields]string{
	"set", "name", "number", "parallel", "serial",
	"source", "paid", "paid on", "value", "notes",
}

// fieldErrKeys maps form fields to validation error keys from the binder.
var fieldErrKeys = [numFields]string{
	fieldSet:      "setName",
	fieldNumber:   "cardNumber",
	fieldParallel: "parallel",
}

type formMode int

const (
	formAdd formMode = iota
	formEdit
)

type formModel struct {
	bind      *binder.Binder
	mode      formMode
	editID    string
	fields    [numFields]string
	focus     formField
	errs      map[string]string
	statusMsg string
}

// formDoneMsg tells the app the form finished (submitted or not).
type formDoneMsg struct {
	saved bool
}

func newAddForm(b *binder.Binder) formModel {
	m := formModel{bind: b, errs: map[string]string{}}
	if names := b.SetNames(); len(names) > 0 {
		m.fields[fieldSet] = names[0]
	}
	return m
}

func newEditForm(b *binder.Binder, id string) formModel {
	m := formModel{bind: b, mode: formEdit, editID: id, errs: map[string]string{}, focus: fieldName}
	card, ok := b.Card(id)
	if !ok {
		return m
	}
	m.fields[fieldSet] = card.SetName
	m.fields[fieldName] = card.CardName
	m.fields[fieldNumber] = card.CardNumber
	m.fields[fieldParallel] = card.Parallel
	m.fields[fieldSerial] = card.Serial
	m.fields[fieldSource] = card.Source
	m.fields[fieldNotes] = card.Notes
	if card.PurchasePrice != nil {
		m.fields[fieldPaid] = strconv.FormatFloat(*card.PurchasePrice, 'f', -1, 64)
	}
	m.fields[fieldPaidDate] = card.PurchaseDate
	if card.CurrentValue != nil {
		m.fields[fieldValue] = strconv.FormatFloat(*card.CurrentValue, 'f', -1, 64)
	}
	return m
}

func (m formModel) Init() tea.Cmd {
	return nil
}

// firstField is the first focusable field; the set is fixed when editing.
func (m formModel) firstField() formField {
	if m.mode == formEdit {
		return fieldName
	}
	return fieldSet
}

func (m formModel) Update(msg tea.Msg) (formModel, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	m.statusMsg = ""

	switch key.String() {
	case "ctrl+s":
		return m.submit()
	case "esc":
		return m, func() tea.Msg { return formDoneMsg{} }
	case "tab", "down":
		m.focus++
		if m.focus >= numFields {
			m.focus = m.firstField()
		}
	case "shift+tab", "up":
		if m.focus == m.firstField() {
			m.focus = numFields - 1
		} else {
			m.focus--
		}
	case "enter":
		m.focus++
		if m.focus >= numFields {
			m.focus = m.firstField()
		}
	default:
		m.fields[m.focus] = editRune(m.fields[m.focus], key.String())
	}
	return m, nil
}

func parseMoney(s string) (*float64, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "$"))
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid amount")
	}
	return &v, nil
}

func (m formModel) submit() (formModel, tea.Cmd) {
	m.errs = map[string]string{}

	paid, err := parseMoney(m.fields[fieldPaid])
	if err != nil {
		m.errs["paid"] = err.Error()
	}
	value, err := parseMoney(m.fields[fieldValue])
	if err != nil {
		m.errs["value"] = err.Error()
	}
	if len(m.errs) > 0 {
		return m, nil
	}

	if m.mode == formEdit {
		return m.submitEdit(paid, value)
	}

	in := binder.CardInput{
		CardName:      strings.TrimSpace(m.fields[fieldName]),
		CardNumber:    strings.TrimSpace(m.fields[fieldNumber]),
		Parallel:      strings.TrimSpace(m.fields[fieldParallel]),
		Serial:        strings.TrimSpace(m.fields[fieldSerial]),
		Source:        strings.TrimSpace(m.fields[fieldSource]),
		Notes:         strings.TrimSpace(m.fields[fieldNotes]),
		PurchasePrice: paid,
		PurchaseDate:  strings.TrimSpace(m.fields[fieldPaidDate]),
		CurrentValue:  value,
	}
	if _, err := m.bind.AddCard(strings.TrimSpace(m.fields[fieldSet]), in); err != nil {
		var verr *binder.ValidationError
		if errors.As(err, &verr) {
			m.errs = verr.Fields
			return m, nil
		}
		m.statusMsg = err.Error()
		return m, nil
	}
	return m, func() tea.Msg { return formDoneMsg{saved: true} }
}

func (m formModel) submitEdit(paid, value *float64) (formModel, tea.Cmd) {
	strPtr := func(f formField) *string {
		v := strings.TrimSpace(m.fields[f])
		return &v
	}
	patch := binder.CardPatch{
		CardName:     strPtr(fieldName),
		CardNumber:   strPtr(fieldNumber),
		Parallel:     strPtr(fieldParallel),
		Serial:       strPtr(fieldSerial),
		Source:       strPtr(fieldSource),
		Notes:        strPtr(fieldNotes),
		PurchaseDate: strPtr(fieldPaidDate),
	}
	// The form always shows both money fields, so blank means "remove",
	// not "leave alone".
	if paid != nil {
		patch.PurchasePrice = paid
	} else {
		patch.ClearPurchasePrice = true
	}
	if value != nil {
		patch.CurrentValue = value
	} else {
		patch.ClearCurrentValue = true
	}
	if err := m.bind.EditCard(m.editID, patch); err != nil {
		var verr *binder.ValidationError
		if errors.As(err, &verr) {
			m.errs = verr.Fields
			return m, nil
		}
		m.statusMsg = err.Error()
		return m, nil
	}
	return m, func() tea.Msg { return formDoneMsg{saved: true} }
}

func (m formModel) View() string {
	var b strings.Builder

	title := "ADD CARD"
	if m.mode == formEdit {
		title = "EDIT CARD"
	}
	b.WriteString(" " + accentStyle.Render(title) + "\n\n")

	for i := formField(0); i < numFields; i++ {
		label := fieldLabels[i]
		value := m.fields[i]
		cursor := " "
		style := metaStyle
		if i == m.focus {
			cursor = ">"
			style = selectedStyle
		}

		if i == fieldSet && m.mode == formEdit {
			fmt.Fprintf(&b, "  %s: %s\n", metaStyle.Render(fmt.Sprintf("%8s", label)), dimStyle.Render(value))
			continue
		}

		display := value
		if i == m.focus {
			display += "█"
		}
		fmt.Fprintf(&b, "%s %s: %s", cursor, style.Render(fmt.Sprintf("%8s", label)), display)

		if errKey := fieldErrKeys[i]; errKey != "" {
			if msg, ok := m.errs[errKey]; ok {
				fmt.Fprintf(&b, "  %s", errorStyle.Render(msg))
			}
		}
		if msg, ok := m.errs[label]; ok {
			fmt.Fprintf(&b, "  %s", errorStyle.Render(msg))
		}
		b.WriteString("\n")
	}

	// Live rarity swatch for the serial field
	if serial := strings.TrimSpace(m.fields[fieldSerial]); serial != "" {
		b.WriteString("\n " + RarityStyle(serial).Render("▌▌") + " " + dimStyle.Render("rarity tier for "+serial) + "\n")
	}

	if m.statusMsg != "" {
		b.WriteString("\n " + errorStyle.Render(m.statusMsg) + "\n")
	}

	return b.String()
}
