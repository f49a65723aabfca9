package overlay

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestNewStyles(t *testing.T) {
	styles := New()
	if styles == nil {
		t.Fatal("New() returned nil")
	}

	tests := []struct {
		name  string
		style lipgloss.Style
	}{
		{"Overlay", styles.Overlay},
		{"Destructive", styles.Destructive},
		{"Wait", styles.Wait},
		{"Title", styles.Title},
		{"DestructiveTitle", styles.DestructiveTitle},
		{"MenuItem", styles.MenuItem},
		{"MenuItemActive", styles.MenuItemActive},
		{"MenuItemDanger", styles.MenuItemDanger},
		{"Subtle", styles.Subtle},
		{"Footer", styles.Footer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rendered := tt.style.Render("test")
			if rendered == "" {
				t.Errorf("%s style rendered empty string", tt.name)
			}
		})
	}
}

func TestStylesFrame(t *testing.T) {
	styles := New()

	tests := []struct {
		name    string
		classes []string
		want    lipgloss.Style
	}{
		{"default", nil, styles.Overlay},
		{"destructive", []string{ClassDestructive}, styles.Destructive},
		{"wait", []string{ClassWait, "extra"}, styles.Wait},
		{"destructive wins", []string{ClassWait, ClassDestructive}, styles.Destructive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := styles.Frame(Props{Classes: tt.classes})
			if got.GetBorderTopForeground() != tt.want.GetBorderTopForeground() {
				t.Errorf("Frame(%v) picked the wrong style", tt.classes)
			}
		})
	}
}

func TestStylesTitleFor(t *testing.T) {
	styles := New()

	if styles.TitleFor(Props{Classes: []string{ClassDestructive}}).GetForeground() != styles.DestructiveTitle.GetForeground() {
		t.Error("destructive props should use DestructiveTitle")
	}
	if styles.TitleFor(Props{}).GetForeground() != styles.Title.GetForeground() {
		t.Error("plain props should use Title")
	}
}
