// Package role assigns one of four study roles from a weighted question
// battery and records the assignment with the profile service.
package role

import (
	"fmt"
	"strings"
)

// Category is one of the four study roles.
type Category string

const (
	Tank       Category = "TANK"
	DPS        Category = "DPS"
	Support    Category = "SUPPORT"
	Specialist Category = "SPECIALIST"
)

// Categories is the fixed enumeration order. It is also the tie-break
// priority: on equal totals the category listed first wins.
var Categories = []Category{Tank, DPS, Support, Specialist}

// Valid reports whether c is one of the four categories.
func (c Category) Valid() bool {
	for _, k := range Categories {
		if c == k {
			return true
		}
	}
	return false
}

// ParseCategory parses a category key, case-insensitively.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToUpper(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unknown role %q (want one of TANK, DPS, SUPPORT, SPECIALIST)", s)
	}
	return c, nil
}

// Info is the display profile of a category.
type Info struct {
	Category    Category
	Name        string
	Icon        string
	Description string
	Traits      []string
	Strategy    string
}

var infos = map[Category]Info{
	Tank: {
		Category:    Tank,
		Name:        "Defensor Épico",
		Icon:        "🛡️",
		Description: "Eres resiliente y constante. Tu fortaleza está en la persistencia y la protección de tus logros.",
		Traits:      []string{"Resiliente", "Metódico", "Confiable", "Persistente"},
		Strategy:    "Enfócate en consolidar conocimientos base y mantener consistencia.",
	},
	DPS: {
		Category:    DPS,
		Name:        "Atacante Feroz",
		Icon:        "⚔️",
		Description: "Eres competitivo y directo. Tu fuerza está en la velocidad y la precisión para resolver problemas.",
		Traits:      []string{"Competitivo", "Rápido", "Eficiente", "Directo"},
		Strategy:    "Practica velocidad de resolución y mantén tu agresividad académica.",
	},
	Support: {
		Category:    Support,
		Name:        "Estratega Colaborativo",
		Icon:        "💫",
		Description: "Eres empático y colaborativo. Tu don está en coordinar esfuerzos y apoyar el crecimiento.",
		Traits:      []string{"Empático", "Colaborativo", "Organizador", "Motivador"},
		Strategy:    "Forma grupos de estudio y enfócate en la gestión del tiempo.",
	},
	Specialist: {
		Category:    Specialist,
		Name:        "Maestro Especialista",
		Icon:        "🎯",
		Description: "Eres analítico y profundo. Tu especialidad está en encontrar patrones y optimizar estrategias.",
		Traits:      []string{"Analítico", "Innovador", "Detallista", "Estratégico"},
		Strategy:    "Analiza patrones en exámenes anteriores y crea técnicas únicas.",
	},
}

// InfoFor returns the display profile of c.
func InfoFor(c Category) (Info, bool) {
	info, ok := infos[c]
	return info, ok
}
