/*
timeline.go - Cross-service reward revision timeline

PURPOSE:
  Answers "which services were affected in which year?" by flattening every
  service's revisions into year groups, newest year first.

ORDERING:
  Year groups descend by year. Within a group, entries keep the order of
  the service catalog, then the order of each service's revisions.
*/
package rewards

import "sort"

// Entry pairs a revision with the service it applies to.
type Entry struct {
	ServiceType string   `json:"service_type"`
	ServiceSlug string   `json:"service_slug"`
	Category    Category `json:"category"`
	Revision    Revision `json:"revision"`
}

// YearGroup is every revision of one year across services.
type YearGroup struct {
	Year      int     `json:"year"`
	Entries   []Entry `json:"entries"`
	Creations int     `json:"creations"`
	Revisions int     `json:"revisions"`
}

// Filter returns the services in category. CategoryAll returns all of them.
func Filter(services []ServiceEntry, category Category) []ServiceEntry {
	if category == CategoryAll || category == "" {
		return services
	}
	var out []ServiceEntry
	for _, s := range services {
		if s.Category == category {
			out = append(out, s)
		}
	}
	return out
}

// GroupByYear groups the revisions of services by year, newest first.
func GroupByYear(services []ServiceEntry) []YearGroup {
	byYear := make(map[int]*YearGroup)
	for _, s := range services {
		for _, r := range s.Revisions {
			g, ok := byYear[r.Year]
			if !ok {
				g = &YearGroup{Year: r.Year}
				byYear[r.Year] = g
			}
			g.Entries = append(g.Entries, Entry{
				ServiceType: s.ServiceType,
				ServiceSlug: s.ServiceSlug,
				Category:    s.Category,
				Revision:    r,
			})
			switch r.Type {
			case TypeCreation:
				g.Creations++
			case TypeRevision:
				g.Revisions++
			}
		}
	}

	out := make([]YearGroup, 0, len(byYear))
	for _, g := range byYear {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year > out[j].Year })
	return out
}

// Timeline filters by category and groups by year in one step.
func Timeline(services []ServiceEntry, category Category) []YearGroup {
	return GroupByYear(Filter(services, category))
}
