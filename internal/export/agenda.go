package export

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/javiermolinar/slotbook/internal/appointment"
	"github.com/javiermolinar/slotbook/internal/dateutil"
	"github.com/javiermolinar/slotbook/internal/resource"
	"github.com/javiermolinar/slotbook/internal/slotclock"
)

// AgendaLine is one appointment in agenda order.
type AgendaLine struct {
	Resource    resource.Resource
	Appointment appointment.Appointment
	Start, End  string // "HH:MM"
}

// AgendaLines groups records by resource in directory order, then by start.
// Records on resources missing from dir are listed last under their id.
func AgendaLines(clock slotclock.Clock, dir *resource.Directory, records []appointment.Appointment) []AgendaLine {
	byRes := make(map[string][]appointment.Appointment)
	for _, a := range records {
		byRes[a.ResourceID] = append(byRes[a.ResourceID], a)
	}

	var order []resource.Resource
	if dir != nil {
		order = dir.All()
	}
	seen := make(map[string]bool, len(order))
	for _, r := range order {
		seen[r.ID] = true
	}
	for _, a := range records {
		if !seen[a.ResourceID] {
			seen[a.ResourceID] = true
			order = append(order, resource.Resource{ID: a.ResourceID})
		}
	}

	var out []AgendaLine
	for _, r := range order {
		list := byRes[r.ID]
		slices.SortStableFunc(list, func(a, b appointment.Appointment) int {
			return cmp.Compare(a.StartIndex, b.StartIndex)
		})
		for _, a := range list {
			out = append(out, AgendaLine{
				Resource:    r,
				Appointment: a,
				Start:       clock.IndexToTime(a.StartIndex),
				End:         clock.IndexToTime(a.EndIndex()),
			})
		}
	}
	return out
}

// Agenda renders a plain-text day agenda suitable for pasting.
func Agenda(date time.Time, clock slotclock.Clock, dir *resource.Directory, records []appointment.Appointment) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", date.Format("Monday"), dateutil.DateKey(date))

	lines := AgendaLines(clock, dir, records)
	if len(lines) == 0 {
		b.WriteString("(no appointments)\n")
		return b.String()
	}

	current := ""
	for _, l := range lines {
		if l.Resource.ID != current {
			current = l.Resource.ID
			fmt.Fprintf(&b, "\n%s\n", l.Resource.DisplayName())
		}
		label := summary(l.Appointment)
		if l.Appointment.IsBlockout() {
			label = "[blocked] " + label
		}
		if g := l.Appointment.GuestInfo; g != nil && g.Name != "" {
			label += " (" + g.Name + ")"
		}
		fmt.Fprintf(&b, "  %s-%s  %s\n", l.Start, l.End, label)
	}
	return b.String()
}
