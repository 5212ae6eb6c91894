// Package feed turns the dashboard's stream messages into snapshots
// and raises alerts when averaged metrics cross their thresholds.
package feed

// Page is a dashboard page and the stream path it subscribes to.
type Page struct {
	Name string
	Path string
}

var pages = []Page{
	{Name: "dashboard", Path: "/ws/dashboard/"},
	{Name: "hardware", Path: "/ws/hardware/"},
	{Name: "energy", Path: "/ws/energy/"},
	{Name: "network", Path: "/ws/network/"},
	{Name: "scores", Path: "/ws/scores/"},
}

// Pages returns every page that has a stream.
func Pages() []Page {
	return append([]Page(nil), pages...)
}

func PageByName(name string) (Page, bool) {
	for _, p := range pages {
		if p.Name == name {
			return p, true
		}
	}
	return Page{}, false
}
