package service

import (
	"sort"
	"strings"

	countdomain "github.com/cocinamqb/stockdiario/internal/count/domain"
	"github.com/cocinamqb/stockdiario/internal/workday/domain"
)

const summarySeparator = "=================================================="

// buildSummary renders the Spanish day report in the shape operators have
// always read: initial stock per category, final stock with usage and
// observations, shortages, pendings and tasks between separator lines.
func (s *Service) buildSummary(set *domain.WorkingSet, completedFinal []countdomain.Response) string {
	order := s.holder.Get().CategoryOrder

	var b strings.Builder
	b.WriteString("📋 RESUMEN DEL DÍA - " + set.Date + "\n")
	b.WriteString(summarySeparator + "\n\n")

	b.WriteString("🌅 STOCK INICIAL DEL DÍA:\n")
	if len(set.Initial) == 0 {
		b.WriteString("- No hay conteo inicial registrado\n")
	} else {
		writeCategorized(&b, set.Initial, order, func(b *strings.Builder, item countdomain.Response) {
			b.WriteString("  • " + item.Name + ": " + item.Quantity.String() + " " + item.Unit + "\n")
		})
	}

	initialByName := countdomain.IndexByName(set.Initial)

	b.WriteString("\n🌙 STOCK FINAL Y USO DEL DÍA:\n")
	if len(completedFinal) == 0 {
		b.WriteString("- No hay conteo final registrado\n")
	} else {
		writeCategorized(&b, completedFinal, order, func(b *strings.Builder, item countdomain.Response) {
			used := countdomain.Usage(initialByName, item).String()
			b.WriteString("  • " + item.Name + ": " + item.Quantity.String() + " " + item.Unit + " (usado: " + used + ")\n")
			if item.Note != "" {
				b.WriteString("    Obs: " + item.Note + "\n")
			}
		})
	}

	b.WriteString("\n⚠️ FALTANTES DETECTADOS:\n")
	if len(set.Shortages) == 0 {
		b.WriteString("- No hay faltantes registrados\n")
	} else {
		for _, shortage := range set.Shortages {
			b.WriteString("  • " + shortage.Description + "\n")
		}
	}

	b.WriteString("\n📝 PENDIENTES PARA MAÑANA:\n")
	if len(set.Pendings) == 0 {
		b.WriteString("- No hay pendientes registrados\n")
	} else {
		for _, pending := range set.Pendings {
			b.WriteString("  • " + pending.Text + "\n")
		}
	}

	b.WriteString("\n🔄 TAREAS ROTATIVAS:\n")
	if len(set.Tasks) == 0 {
		b.WriteString("- No hay tareas asignadas\n")
	} else {
		for _, task := range set.Tasks {
			line := "  • "
			if task.DueDate != "" {
				line += task.DueDate + ": "
			}
			line += task.Description
			if task.Assignee != "" {
				line += " (Encargado: " + task.Assignee + ")"
			}
			b.WriteString(line + "\n")
		}
	}

	b.WriteString("\n" + summarySeparator + "\n")
	return b.String()
}

// writeCategorized groups entries by category, walking the configured order
// first and then any categories the config does not know about.
func writeCategorized(b *strings.Builder, entries []countdomain.Response, order []string, line func(*strings.Builder, countdomain.Response)) {
	byCategory := make(map[string][]countdomain.Response)
	for _, entry := range entries {
		category := entry.Category
		if category == "" {
			category = "General"
		}
		byCategory[category] = append(byCategory[category], entry)
	}

	known := make(map[string]bool, len(order))
	categories := make([]string, 0, len(byCategory))
	for _, category := range order {
		known[category] = true
		if _, ok := byCategory[category]; ok {
			categories = append(categories, category)
		}
	}
	var extra []string
	for category := range byCategory {
		if !known[category] {
			extra = append(extra, category)
		}
	}
	sort.Strings(extra)
	categories = append(categories, extra...)

	for _, category := range categories {
		b.WriteString("\n" + category + ":\n")
		for _, entry := range byCategory[category] {
			line(b, entry)
		}
	}
}
