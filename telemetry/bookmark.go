package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkImpactBurst  BookmarkType = "impact_burst"
	BookmarkFieldChanged BookmarkType = "field_changed"
	BookmarkSceneCleared BookmarkType = "scene_cleared"
	BookmarkSceneSettled BookmarkType = "scene_settled"
)

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `json:"type"`
	Tick        uint64       `json:"tick"`
	Description string       `json:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector watches closed stats windows for notable moments.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool
	last        WindowStats

	recentEntityPeak   int // peak entity count since the last clear
	stableWindowsCount int // consecutive windows with steady contacts
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 5 {
		historySize = 5 // minimum for settle detection
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if bd.historyFull || bd.historyIdx > 0 {
		// Impact burst: impacts > 2x rolling average
		if b := bd.checkImpactBurst(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Field changed: a regeneration happened inside the window
		if b := bd.checkFieldChanged(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Scene cleared: bodies were present, now none are
		if b := bd.checkSceneCleared(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}

		// Scene settled: steady body count and contacts over 5 windows
		if b := bd.checkSceneSettled(stats); b != nil {
			bookmarks = append(bookmarks, *b)
		}
	}

	bd.addToHistory(stats)

	if stats.EntitiesEnd > bd.recentEntityPeak {
		bd.recentEntityPeak = stats.EntitiesEnd
	}

	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
	bd.last = stats
}

// getHistory returns the recorded windows, oldest first.
func (bd *BookmarkDetector) getHistory() []WindowStats {
	if !bd.historyFull {
		return bd.history[:bd.historyIdx]
	}
	ordered := make([]WindowStats, 0, bd.historySize)
	ordered = append(ordered, bd.history[bd.historyIdx:]...)
	return append(ordered, bd.history[:bd.historyIdx]...)
}

func (bd *BookmarkDetector) checkImpactBurst(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.Impacts
	}
	avg := float64(total) / float64(len(history))
	baseline := max(avg, 1)

	if stats.Impacts >= 3 && float64(stats.Impacts) > baseline*2.0 {
		return &Bookmark{
			Type:        BookmarkImpactBurst,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d impacts, %.1fx the average (%.2f)", stats.Impacts, float64(stats.Impacts)/baseline, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkFieldChanged(stats WindowStats) *Bookmark {
	if stats.FieldVersion == bd.last.FieldVersion {
		return nil
	}
	return &Bookmark{
		Type:        BookmarkFieldChanged,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Field version %d -> %d, %d particles", bd.last.FieldVersion, stats.FieldVersion, stats.FieldCount),
	}
}

func (bd *BookmarkDetector) checkSceneCleared(stats WindowStats) *Bookmark {
	if bd.recentEntityPeak == 0 || stats.EntitiesEnd != 0 {
		return nil
	}

	// Reset the peak after triggering
	oldPeak := bd.recentEntityPeak
	bd.recentEntityPeak = 0
	bd.stableWindowsCount = 0

	return &Bookmark{
		Type:        BookmarkSceneCleared,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Scene cleared from a peak of %d bodies", oldPeak),
	}
}

func (bd *BookmarkDetector) checkSceneSettled(stats WindowStats) *Bookmark {
	if stats.EntitiesEnd == 0 || stats.EntitiesEnd != bd.last.EntitiesEnd {
		bd.stableWindowsCount = 0
		return nil
	}

	history := bd.getHistory()
	if len(history) < 4 {
		return nil
	}
	recent := history[len(history)-4:]

	var sum float64
	for _, h := range recent {
		sum += h.ContactsMean
	}
	mean := sum / 4

	var variance float64
	for _, h := range recent {
		diff := h.ContactsMean - mean
		variance += diff * diff
	}
	variance /= 4

	// Low variance: coefficient of variation < 20%
	cv2 := 0.0
	if mean > 0 {
		cv2 = variance / (mean * mean)
	}
	if mean > 0 && cv2 < 0.04 && stats.Impacts == 0 {
		bd.stableWindowsCount++
	} else {
		bd.stableWindowsCount = 0
	}

	if bd.stableWindowsCount == 5 { // trigger exactly once at 5 windows
		return &Bookmark{
			Type:        BookmarkSceneSettled,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d bodies at rest with %.1f contacts per frame", stats.EntitiesEnd, mean),
		}
	}
	return nil
}
