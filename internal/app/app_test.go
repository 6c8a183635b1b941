package app

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/lezen/internal/reading"
	"github.com/abhisek/lezen/internal/ui/layout"
)

type nopGenerator struct{}

func (nopGenerator) Generate(context.Context, reading.Request) (*reading.Content, error) {
	return nil, nil
}

func newTestModel() AppModel {
	m := newAppModel(context.Background(), Options{Generator: nopGenerator{}})
	m.Init()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(AppModel)
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestView_RendersFrame(t *testing.T) {
	m := newTestModel()
	content := m.render()

	if !strings.Contains(content, layout.AppName) {
		t.Error("expected the app name in the header")
	}
	if !strings.Contains(content, "Genereer een nieuwe leestekst") {
		t.Error("expected the compose form")
	}
	if !strings.Contains(content, "Genereren") {
		t.Error("expected the compose key hints in the footer")
	}
}

func TestView_TooSmall(t *testing.T) {
	m := newTestModel()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})

	if !strings.Contains(updated.(AppModel).render(), "te klein") {
		t.Error("expected the minimum size message")
	}
}

func TestCtrlCQuits(t *testing.T) {
	m := newTestModel()
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	if !isQuit(cmd) {
		t.Error("expected ctrl+c to quit")
	}
}

func TestQTypesIntoTopicField(t *testing.T) {
	m := newTestModel()

	// The topic field has focus, so "q" is text, not a shortcut.
	_, cmd := m.Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	if isQuit(cmd) {
		t.Error("expected q to be typed into the focused text field")
	}

	// Move focus to the submit button; now q quits.
	updated, _ := m.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	_, cmd = updated.(AppModel).Update(tea.KeyPressMsg{Code: 'q', Text: "q"})
	if !isQuit(cmd) {
		t.Error("expected q to quit outside text fields")
	}
}
