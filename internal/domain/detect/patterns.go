package detect

import (
	"regexp"
	"strings"

	"github.com/damianidczak/vue-render-inspector-sub002/internal/domain/model"
)

// nonDeterminismMarkers flag computed properties whose value depends on
// something other than reactive inputs.
var nonDeterminismMarkers = []string{
	"Date.now",
	"new Date",
	"Math.random",
	"performance.now",
	"window.",
	"document.",
}

// NonDeterministicComputed reports whether any computed property reads
// time, randomness or global browser state. Components without computed
// properties are clean.
func NonDeterministicComputed(ctx *model.InstanceContext) bool {
	if ctx == nil || len(ctx.Computed) == 0 {
		return false
	}
	for _, entry := range ctx.Computed {
		if containsAny(sourceOf(entry), nonDeterminismMarkers) {
			return true
		}
	}
	return false
}

// Mount/unmount hook names accepted across API generations.
var (
	mountHookNames   = []string{"mounted", "onMounted"}
	unmountHookNames = []string{"unmounted", "onUnmounted", "beforeUnmount", "beforeDestroy", "destroyed"}
)

var listenerEventRe = regexp.MustCompile(`addEventListener\(\s*['"]([^'"]+)['"]`)

// EventListenerLeak reports whether the mount hook registers listeners
// that the unmount hook never removes. Registration on any target
// counts. When event names are extractable, deregistration is matched
// per name; otherwise any removeEventListener call in the unmount hook
// clears the component.
func EventListenerLeak(ctx *model.InstanceContext) bool {
	if ctx == nil || len(ctx.Hooks) == 0 {
		return false
	}

	mount := hookSource(ctx, mountHookNames)
	if !strings.Contains(mount, "addEventListener") {
		return false
	}

	unmount := hookSource(ctx, unmountHookNames)
	if unmount == "" {
		return true
	}
	if !strings.Contains(unmount, "removeEventListener") {
		return true
	}

	events := listenerEventRe.FindAllStringSubmatch(mount, -1)
	if len(events) == 0 {
		// Registration present but event name not extractable; a bare
		// removeEventListener in the unmount hook counts as cleanup.
		return false
	}
	for _, match := range events {
		if !strings.Contains(unmount, `removeEventListener('`+match[1]+`'`) &&
			!strings.Contains(unmount, `removeEventListener("`+match[1]+`"`) {
			return true
		}
	}
	return false
}

// hookSource returns the first non-empty source among the given hook names.
func hookSource(ctx *model.InstanceContext, names []string) string {
	for _, name := range names {
		if entry, ok := ctx.Hooks[name]; ok {
			if s := sourceOf(entry); s != "" {
				return s
			}
		}
	}
	return ""
}

// DeepWatcher reports whether any watcher observes its source deeply.
// Deep watchers re-fire on every nested mutation and are a frequent
// cause of render storms in the instrumented framework.
func DeepWatcher(ctx *model.InstanceContext) bool {
	if ctx == nil || len(ctx.Watchers) == 0 {
		return false
	}
	for _, entry := range ctx.Watchers {
		switch t := entry.(type) {
		case map[string]any:
			if deep, ok := t["deep"].(bool); ok && deep {
				return true
			}
			if s := sourceOf(t); strings.Contains(s, "deep: true") || strings.Contains(s, "deep:true") {
				return true
			}
		case string:
			if strings.Contains(t, "deep: true") || strings.Contains(t, "deep:true") {
				return true
			}
		}
	}
	return false
}
