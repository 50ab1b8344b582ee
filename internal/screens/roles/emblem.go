package roles

import (
	"github.com/torredebabel/icfes/internal/role"
	"github.com/torredebabel/icfes/internal/ui/theme"
)

const emblemTower = `  ┌┐┌┐┌┐
  │└┘└┘│
  │ ▢▢ │
  │    │
 ─┴────┴─`

const emblemTank = `┌─────┐
│ ▓▓▓ │
│ ▓█▓ │
 ╲ ▓ ╱
  ╲─╱`

const emblemDPS = `    ╱╲
   ╱╱
╲ ╱╱
 ╳╱
╱ ╲`

const emblemSupport = ` ╭─╮ ╭─╮
 │  ╳  │
  ╲ + ╱
   ╲ ╱
    ╳`

const emblemSpecialist = ` ╭─────╮
 │ ╭─╮ │
─┼─┤◉├─┼─
 │ ╰─╯ │
 ╰─────╯`

// RenderEmblem returns the ASCII emblem of a category in its color. An
// empty or unknown category renders the tower.
func RenderEmblem(c role.Category) string {
	var art string
	switch c {
	case role.Tank:
		art = emblemTank
	case role.DPS:
		art = emblemDPS
	case role.Support:
		art = emblemSupport
	case role.Specialist:
		art = emblemSpecialist
	default:
		return theme.Title.Render(emblemTower)
	}
	return theme.Role(string(c)).Render(art)
}
