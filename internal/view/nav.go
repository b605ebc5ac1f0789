package view

import "strings"

// NavItem is one sidebar entry.
type NavItem struct {
	Key    string
	Label  string
	Path   string
	Active bool
}

var views = []NavItem{
	{Key: "dashboard", Label: "Dashboard", Path: "/dashboard"},
	{Key: "customers", Label: "Customers", Path: "/customers"},
	{Key: "suppliers", Label: "Suppliers", Path: "/suppliers"},
	{Key: "medicines", Label: "Medicines", Path: "/medicines"},
	{Key: "equipment", Label: "Equipment", Path: "/equipment"},
	{Key: "sales", Label: "Sales", Path: "/sales"},
	{Key: "payments", Label: "Payments", Path: "/payments"},
	{Key: "reports", Label: "Reports", Path: "/reports"},
	{Key: "profile", Label: "Profile", Path: "/profile"},
	{Key: "about", Label: "About", Path: "/about"},
}

// DefaultView is shown after login and for unknown view keys.
const DefaultView = "dashboard"

// Navigation returns the sidebar with the entry for path marked active.
func Navigation(path string) []NavItem {
	current := CurrentView(path)
	out := make([]NavItem, len(views))
	for i, item := range views {
		item.Active = item.Key == current
		out[i] = item
	}
	return out
}

// CurrentView maps a request path to its view key. Paths outside every view
// yield an empty key.
func CurrentView(path string) string {
	for _, item := range views {
		if path == item.Path || strings.HasPrefix(path, item.Path+"/") {
			return item.Key
		}
	}
	if strings.HasPrefix(path, "/report/") {
		return "reports"
	}
	return ""
}

// ViewPath returns the route for key, falling back to the dashboard.
func ViewPath(key string) string {
	key = strings.ToLower(strings.TrimSpace(key))
	for _, item := range views {
		if item.Key == key {
			return item.Path
		}
	}
	return "/dashboard"
}
