package browser

import (
	"context"
	"strings"

	"github.com/lite-lake/tenten-ddns/internal/domain/contract"
	"github.com/lite-lake/tenten-ddns/internal/infrastructure/logger"
)

// FindElement returns the first element matched by selectors, tried in
// order against scope. Inputs and textareas are focused before being
// returned. A selector that fails to evaluate is skipped like a miss.
func FindElement(ctx context.Context, scope contract.Scope, selectors []string) (contract.Element, bool) {
	log := logger.FromContext(ctx)
	for _, sel := range selectors {
		el, err := scope.QuerySelector(sel)
		if err != nil {
			log.Debug("selector failed", "selector", sel, "error", err)
			continue
		}
		if el == nil {
			continue
		}
		if focusable(el) {
			if err := el.Focus(); err != nil {
				log.Debug("focus failed", "selector", sel, "error", err)
			}
		}
		log.Debug("element found", "selector", sel)
		return el, true
	}
	return nil, false
}

func focusable(el contract.Element) bool {
	tag, err := el.TagName()
	if err != nil {
		return false
	}
	switch strings.ToLower(tag) {
	case "input", "textarea":
		return true
	}
	return false
}
