package main

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/hongminglow/clevo-client/internal/api"
	"github.com/hongminglow/clevo-client/internal/booking"
	"github.com/hongminglow/clevo-client/internal/models"
	"github.com/hongminglow/clevo-client/internal/toast"
)

func table(w io.Writer, header ...string) *tabwriter.Writer {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	return tw
}

func section(w io.Writer, title string) {
	fmt.Fprintf(w, "== %s ==\n", title)
}

func renderToast(w io.Writer, t toast.Toast) {
	if t.Variant == toast.Destructive {
		fmt.Fprintf(w, "! %s: %s\n", t.Title, t.Description)
		return
	}
	fmt.Fprintf(w, "* %s %s\n", t.Title, t.Description)
}

func renderSlots(w io.Writer, slots []models.PickupSlot) {
	if len(slots) == 0 {
		fmt.Fprintln(w, "(none)")
		fmt.Fprintln(w)
		return
	}
	tw := table(w, "ID", "WARD", "START", "END", "SPOTS LEFT", "ACTIVE")
	for _, s := range slots {
		ward := ""
		if s.Ward != nil {
			ward = s.Ward.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d/%d\t%t\n", s.ID, ward,
			s.StartTime.Local().Format(timeLayout), s.EndTime.Local().Format(timeLayout),
			s.SpotsLeft(), s.Capacity, s.IsActive)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func renderBookings(w io.Writer, bookings []models.Booking) {
	if len(bookings) == 0 {
		fmt.Fprintln(w, "(none)")
		fmt.Fprintln(w)
		return
	}
	tw := table(w, "ID", "CODE", "PICKUP", "CATEGORY", "ESTIMATED", "ACTUAL", "STATUS", "POINTS")
	for _, b := range bookings {
		pickup, category := "", ""
		if b.PickupSlot != nil {
			pickup = b.PickupSlot.StartTime.Local().Format(timeLayout)
		}
		if b.WasteCategory != nil {
			category = b.WasteCategory.Name
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%g\t%g\t%s\t%s\n", b.ID, b.ConfirmationCode, pickup, category,
			b.EstimatedQuantity, b.ActualQuantity, b.Status, booking.FormatPoints(b.EarnedPoints()))
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func renderRewards(w io.Writer, rewards []models.Reward, balance float64) {
	tw := table(w, "ID", "REWARD", "COST", "AFFORDABLE")
	for _, r := range rewards {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%t\n", r.ID, r.Name, r.Points, balance >= float64(r.Points))
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func renderUsers(w io.Writer, users []models.User) {
	tw := table(w, "ID", "USERNAME", "ROLE", "NAME", "EMAIL", "ACTIVE")
	for _, u := range users {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%t\n", u.ID, u.Username, u.Role, u.Name(), u.Email, u.Active)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func renderWards(w io.Writer, wards []models.Ward) {
	tw := table(w, "ID", "NAME", "DESCRIPTION")
	for _, ward := range wards {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", ward.ID, ward.Name, ward.Description)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func renderCategories(w io.Writer, categories []models.WasteCategory) {
	tw := table(w, "ID", "NAME", "POINTS/UNIT", "DESCRIPTION")
	for _, c := range categories {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", c.ID, c.Name, booking.FormatPoints(c.EcoPointsPerUnit), c.Description)
	}
	tw.Flush()
	fmt.Fprintln(w)
}

// renderSeries prints a chart series as a table whose columns are the union
// of the keys seen, in name order.
func renderSeries(w io.Writer, title string, series api.Series) {
	section(w, title)
	if len(series) == 0 {
		fmt.Fprintln(w, "(no data)")
		fmt.Fprintln(w)
		return
	}
	seen := map[string]bool{}
	var keys []string
	for _, row := range series {
		for k := range row {
			if !seen[k] {
				seen[k] = true
				keys = append(keys, k)
			}
		}
	}
	sort.Strings(keys)
	tw := table(w, upper(keys)...)
	for _, row := range series {
		cells := make([]string, len(keys))
		for i, k := range keys {
			if v, ok := row[k]; ok {
				cells[i] = fmt.Sprint(v)
			}
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	tw.Flush()
	fmt.Fprintln(w)
}

func upper(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToUpper(s)
	}
	return out
}
