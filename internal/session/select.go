package session

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ironsheep/hextech-overlay/internal/overlay"
)

// selectHero prompts until a hero with augment data is chosen.
func (c *Controller) selectHero(ctx context.Context) (string, error) {
	c.setSession(Session{Phase: Selecting})
	c.sink.Post(overlay.Clear{})
	c.console.Discard()
	c.console.Printf("=== ARAM augment overlay (%s to re-select) ===\n", c.resetKey)

	for {
		c.console.Printf(">>> hero name (pinyin or Chinese): ")
		line, err := c.console.ReadLine(ctx)
		if err != nil {
			return "", err
		}
		query := strings.TrimSpace(line)
		if query == "" {
			continue
		}

		selected, err := c.resolve(ctx, query)
		if err != nil {
			return "", err
		}
		if selected == "" {
			continue
		}

		hero, ok := c.index.Canonical(selected)
		if !ok {
			c.console.Printf("no data for [%s]\n", selected)
			c.log.Info().Str("hero", selected).Msg("hero has no augment data")
			continue
		}
		if hero != selected {
			c.console.Printf("mapped: %s -> %s\n", selected, hero)
		}
		return hero, nil
	}
}

// resolve turns one query into a chosen name. An empty name with a nil
// error restarts the query loop.
func (c *Controller) resolve(ctx context.Context, query string) (string, error) {
	candidates, exact := c.index.Search(query)
	c.log.Debug().Str("query", query).Strs("candidates", candidates).Bool("exact", exact).Msg("search")

	switch {
	case len(candidates) == 0:
		c.console.Printf("not found, try again\n")
		return "", nil

	case len(candidates) > 1:
		c.console.Printf("several heroes match, choose one:\n")
		for i, name := range candidates {
			c.console.Printf("   %d. %s\n", i+1, name)
		}
		c.console.Printf(">>> number (1-%d): ", len(candidates))
		line, err := c.console.ReadLine(ctx)
		if err != nil {
			return "", err
		}
		i, err := choice(line, len(candidates))
		if err != nil {
			c.log.Debug().Err(err).Msg("selection rejected")
			c.console.Printf("invalid choice, enter the hero name again\n")
			return "", nil
		}
		return candidates[i], nil

	case exact:
		return candidates[0], nil

	default:
		c.console.Printf("   did you mean %s? (Enter to confirm / n to retry) ", candidates[0])
		line, err := c.console.ReadLine(ctx)
		if err != nil {
			return "", err
		}
		if declined(line) {
			return "", nil
		}
		return candidates[0], nil
	}
}

// choice parses a 1-based index into a 0-based one.
func choice(line string, n int) (int, error) {
	s := strings.TrimSpace(line)
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInput, s)
	}
	if i < 1 || i > n {
		return 0, fmt.Errorf("%w: %d is not between 1 and %d", ErrInput, i, n)
	}
	return i - 1, nil
}

func declined(line string) bool {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "n", "no", "否":
		return true
	}
	return false
}
