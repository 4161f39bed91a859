package mana

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// HybridPip is a single hybrid mana symbol (e.g. {W/U}, {2/B}): one pip
// payable by any of Options.
type HybridPip struct {
	Options []Color // for a {2/B}-style pip, Colorless plus the one color
	Generic bool    // true when one option side is "any 1 generic"
}

// Cost is a parsed mana cost.
type Cost struct {
	Generic int
	Colors  map[Color]int
	Hybrid  []HybridPip
	X       bool
}

var pipPattern = regexp.MustCompile(`\{([^}]+)\}`)

// Parse parses a printed mana cost string such as "{2}{R}{R}" or "{X}{G/U}".
// Grounded on the teacher's mana.ParseCost regex-driven scanner.
func Parse(costStr string) (*Cost, error) {
	cost := &Cost{Colors: make(map[Color]int)}
	if strings.TrimSpace(costStr) == "" {
		return cost, nil
	}

	for _, match := range pipPattern.FindAllStringSubmatch(costStr, -1) {
		symbol := strings.ToUpper(strings.TrimSpace(match[1]))
		switch symbol {
		case "X", "Y", "Z":
			cost.X = true
		case "W":
			cost.Colors[White]++
		case "U":
			cost.Colors[Blue]++
		case "B":
			cost.Colors[Black]++
		case "R":
			cost.Colors[Red]++
		case "G":
			cost.Colors[Green]++
		case "C":
			cost.Colors[Colorless]++
		default:
			if n, err := strconv.Atoi(symbol); err == nil {
				cost.Generic += n
				continue
			}
			if strings.Contains(symbol, "/") {
				pip, err := parseHybrid(symbol)
				if err != nil {
					return nil, err
				}
				cost.Hybrid = append(cost.Hybrid, pip)
				continue
			}
			return nil, fmt.Errorf("mana: unknown symbol {%s}", symbol)
		}
	}
	return cost, nil
}

func parseHybrid(symbol string) (HybridPip, error) {
	parts := strings.SplitN(symbol, "/", 2)
	if len(parts) != 2 {
		return HybridPip{}, fmt.Errorf("mana: malformed hybrid symbol {%s}", symbol)
	}
	var pip HybridPip
	for _, side := range parts {
		side = strings.TrimSpace(side)
		if n, err := strconv.Atoi(side); err == nil && n > 0 {
			pip.Generic = true
			continue
		}
		switch side {
		case "W":
			pip.Options = append(pip.Options, White)
		case "U":
			pip.Options = append(pip.Options, Blue)
		case "B":
			pip.Options = append(pip.Options, Black)
		case "R":
			pip.Options = append(pip.Options, Red)
		case "G":
			pip.Options = append(pip.Options, Green)
		case "C":
			pip.Options = append(pip.Options, Colorless)
		default:
			return HybridPip{}, fmt.Errorf("mana: unknown hybrid side %q", side)
		}
	}
	return pip, nil
}

// ConvertedManaValue sums the generic and colored pip counts, ignoring
// hybrid pips' generic side (each hybrid/phyrexian pip counts as 1 the way
// rule 202.3 specifies) and X (treated as 0 outside the stack).
func (c *Cost) ConvertedManaValue() int {
	total := c.Generic
	for _, n := range c.Colors {
		total += n
	}
	total += len(c.Hybrid)
	return total
}

// String renders the cost back to {N}{W}... notation.
func (c *Cost) String() string {
	var b strings.Builder
	if c.X {
		b.WriteString("{X}")
	}
	if c.Generic > 0 {
		fmt.Fprintf(&b, "{%d}", c.Generic)
	}
	order := []Color{White, Blue, Black, Red, Green, Colorless}
	symbols := map[Color]string{White: "W", Blue: "U", Black: "B", Red: "R", Green: "G", Colorless: "C"}
	for _, col := range order {
		for i := 0; i < c.Colors[col]; i++ {
			fmt.Fprintf(&b, "{%s}", symbols[col])
		}
	}
	for range c.Hybrid {
		b.WriteString("{hybrid}")
	}
	return b.String()
}
