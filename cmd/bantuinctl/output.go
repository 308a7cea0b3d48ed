package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/shopspring/decimal"

	"github.com/ignatzorin/bantuin-gateway/internal/domain/entity"
	"github.com/ignatzorin/bantuin-gateway/internal/domain/policy"
	"github.com/ignatzorin/bantuin-gateway/internal/domain/valueobject"
	"github.com/ignatzorin/bantuin-gateway/internal/workflow"
)

func money(d decimal.Decimal) string {
	return valueobject.Money{Amount: d}.String()
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// table печатает строки, разделённые табуляцией, выровненными колонками.
func table(w io.Writer, header string, rows []string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, header)
	for _, row := range rows {
		fmt.Fprintln(tw, row)
	}
	return tw.Flush()
}

func actionNames(set policy.ActionSet) string {
	actions := set.Sorted()
	if len(actions) == 0 {
		return "-"
	}
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = string(a)
	}
	return strings.Join(names, ", ")
}

type orderJSON struct {
	Order    *entity.Order `json:"order"`
	Role     string        `json:"role"`
	Label    string        `json:"label"`
	Tone     string        `json:"tone"`
	Progress int           `json:"progress"`
	Actions  []string      `json:"actions"`
}

func viewJSON(v *workflow.OrderView) orderJSON {
	out := orderJSON{
		Order:    v.Order,
		Role:     string(v.Role),
		Label:    v.Label,
		Tone:     string(v.Tone),
		Progress: v.Progress,
		Actions:  []string{},
	}
	for _, a := range v.Actions.Sorted() {
		out.Actions = append(out.Actions, string(a))
	}
	return out
}

func (a *app) printView(v *workflow.OrderView) error {
	if a.asJSON {
		return writeJSON(a.out, viewJSON(v))
	}
	o := v.Order
	fmt.Fprintf(a.out, "Заказ %s: %s\n", o.ID, o.Title)
	fmt.Fprintf(a.out, "  статус:    %s (%s) %d%%\n", v.Label, v.Status, v.Progress)
	fmt.Fprintf(a.out, "  роль:      %s\n", roleName(v.Role))
	fmt.Fprintf(a.out, "  цена:      %s\n", money(o.Price))
	fmt.Fprintf(a.out, "  ревизии:   %d из %d, осталось %d\n", o.RevisionCount, o.MaxRevisions, o.RevisionsLeft())
	if note := o.LatestRevisionNote(); note != "" {
		fmt.Fprintf(a.out, "  ревизия:   %s\n", note)
	}
	if len(o.DeliveryFiles) > 0 {
		fmt.Fprintf(a.out, "  файлы:     %s\n", strings.Join(o.DeliveryFiles, ", "))
	}
	for _, log := range o.ProgressLogs {
		fmt.Fprintf(a.out, "  прогресс:  %s %s\n", log.CreatedAt.Format("2006-01-02"), log.Title)
	}
	if v.Status.IsTerminal() {
		fmt.Fprintln(a.out, "  заказ закрыт, статус больше не изменится")
	}
	fmt.Fprintf(a.out, "  действия:  %s\n", actionNames(v.Actions))
	return nil
}

func roleName(r valueobject.Role) string {
	if r == valueobject.RoleNone {
		return "наблюдатель"
	}
	return string(r)
}
