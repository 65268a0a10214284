// ABOUTME: Pure rendering functions from application state to markup
// ABOUTME: All interpolated text flows through html/template escaping

package view

import (
	"html/template"
	"strings"

	"github.com/2389/minilist/internal/model"
)

// Caps selects the action controls a variant renders per item.
type Caps struct {
	Toggle bool
	Edit   bool
}

// itemListData is the input to the items fragment template.
type itemListData struct {
	Items      []model.Item
	TotalCount int
	EditID     string
	CanToggle  bool
	CanEdit    bool
}

// ItemList renders the list fragment from the filtered items. The
// empty-state message depends on the unfiltered list: "No items yet." when
// nothing exists at all, "No results." when only the filter matched
// nothing. Item text is escaped by the template engine, so user-entered
// markup renders as literal text.
func ItemList(filtered []model.Item, totalCount int, editID string, caps Caps) (template.HTML, error) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/items.html"))

	var buf strings.Builder
	err := tmpl.ExecuteTemplate(&buf, "items", itemListData{
		Items:      filtered,
		TotalCount: totalCount,
		EditID:     editID,
		CanToggle:  caps.Toggle,
		CanEdit:    caps.Edit,
	})
	if err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

// LocalPage is the render input of the local variant.
type LocalPage struct {
	Title       string
	Status      string
	StatusError bool
	Query       string
	Items       template.HTML
}

// RenderLocalPage renders the full local-variant page.
func RenderLocalPage(p LocalPage) (string, error) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/local.html"))

	if p.Title == "" {
		p.Title = "minilist"
	}

	var buf strings.Builder
	if err := tmpl.ExecuteTemplate(&buf, "base", p); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// CloudPage is the render input of the cloud variant. Authenticated
// selects between the app screen and the auth screen.
type CloudPage struct {
	Title         string
	Status        string
	StatusError   bool
	Query         string
	Authenticated bool
	UserEmail     string
	Items         template.HTML
}

// RenderCloudPage renders the full cloud-variant page.
func RenderCloudPage(p CloudPage) (string, error) {
	tmpl := template.Must(template.ParseFS(templateFS, "templates/base.html", "templates/cloud.html"))

	if p.Title == "" {
		p.Title = "minilist"
	}

	var buf strings.Builder
	if err := tmpl.ExecuteTemplate(&buf, "base", p); err != nil {
		return "", err
	}
	return buf.String(), nil
}
