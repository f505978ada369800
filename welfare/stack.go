package welfare

import "github.com/warp/welfare-intel/analytics"

// ServiceSelection is the set of services shown in the stacked facility
// chart. It is never empty: removing the last service is ignored.
type ServiceSelection struct {
	all    []string
	active map[string]bool
}

// NewServiceSelection starts with every service active.
func NewServiceSelection(all []string) *ServiceSelection {
	s := &ServiceSelection{all: all, active: make(map[string]bool, len(all))}
	for _, svc := range all {
		s.active[svc] = true
	}
	return s
}

// Toggle flips svc. Unknown services and removing the last active service
// are no-ops.
func (s *ServiceSelection) Toggle(svc string) {
	if !s.known(svc) {
		return
	}
	if s.active[svc] {
		if len(s.active) > 1 {
			delete(s.active, svc)
		}
		return
	}
	s.active[svc] = true
}

// Only restricts the selection to the requested services. If none of them
// is known, the selection is left untouched.
func (s *ServiceSelection) Only(requested []string) {
	next := make(map[string]bool)
	for _, svc := range requested {
		if s.known(svc) {
			next[svc] = true
		}
	}
	if len(next) > 0 {
		s.active = next
	}
}

// Active returns the active services in display order.
func (s *ServiceSelection) Active() []string {
	out := make([]string, 0, len(s.active))
	for _, svc := range s.all {
		if s.active[svc] {
			out = append(out, svc)
		}
	}
	return out
}

// IsActive reports whether svc is shown.
func (s *ServiceSelection) IsActive(svc string) bool { return s.active[svc] }

func (s *ServiceSelection) known(svc string) bool {
	for _, v := range s.all {
		if v == svc {
			return true
		}
	}
	return false
}

// ServiceLegend is one legend chip of the stacked chart.
type ServiceLegend struct {
	Service string `json:"service"`
	Color   string `json:"color"`
	Active  bool   `json:"active"`
}

// StackYear is one bar of the stacked chart.
type StackYear struct {
	Year     int           `json:"year"`
	Services ServiceCounts `json:"services"`
	Total    int           `json:"total"`
}

// FacilityStack is the stacked facility count chart.
type FacilityStack struct {
	Legend []ServiceLegend     `json:"legend"`
	Years  []StackYear         `json:"years"`
	Totals []analytics.Point   `json:"totals"`
	Growth *float64            `json:"growth"`
	Dir    analytics.Direction `json:"direction"`
}

// StackQuery selects the services of the stacked chart. Services restricts
// the selection; Toggle then flips each listed service in order, the way
// legend clicks do.
type StackQuery struct {
	Services []string
	Toggle   []string
}

// BuildFacilityStack builds the stacked chart for the selected services.
// The service list is taken from the first year, as published. An empty
// query shows every service.
func BuildFacilityStack(years []FacilityCountYear, q StackQuery) FacilityStack {
	var all []string
	if len(years) > 0 {
		for _, c := range years[0].Services {
			all = append(all, c.Service)
		}
	}
	sel := NewServiceSelection(all)
	if len(q.Services) > 0 {
		sel.Only(q.Services)
	}
	for _, svc := range q.Toggle {
		sel.Toggle(svc)
	}
	active := sel.Active()

	stack := FacilityStack{}
	for _, svc := range all {
		stack.Legend = append(stack.Legend, ServiceLegend{
			Service: svc,
			Color:   ServiceColor(svc),
			Active:  sel.IsActive(svc),
		})
	}
	for _, y := range years {
		row := StackYear{Year: y.Year}
		for _, svc := range active {
			n := y.Services.Get(svc)
			row.Services = append(row.Services, ServiceCount{Service: svc, Count: n})
			row.Total += n
		}
		stack.Years = append(stack.Years, row)
		stack.Totals = append(stack.Totals, analytics.Point{Year: y.Year, Value: float64(row.Total)})
	}
	stack.Growth = analytics.Growth(stack.Totals)
	stack.Dir = analytics.ClassifyGrowth(stack.Growth)
	return stack
}
