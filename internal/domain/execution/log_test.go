package execution

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedClock() func() time.Time {
	t := time.Date(2026, 3, 1, 14, 5, 9, 42_000_000, time.UTC)
	return func() time.Time { return t }
}

func TestLog_AddFormatsTimestamp(t *testing.T) {
	log := NewLog(fixedClock(), nil)

	entry := log.Tool("Selected tool: CameraOrbit360")

	assert.Equal(t, "14:05:09.042", entry.Timestamp)
	assert.Equal(t, LevelTool, entry.Level)
	assert.Equal(t, 1, log.Len())
}

func TestLog_ObserverReceivesEntriesInOrder(t *testing.T) {
	var seen []Level
	log := NewLog(fixedClock(), func(e Entry) { seen = append(seen, e.Level) })

	log.Info("a")
	log.Success("b")
	log.Warning("c")
	log.Error("d")

	assert.Equal(t, []Level{LevelInfo, LevelSuccess, LevelWarning, LevelError}, seen)
}

func TestLog_EntriesIsCopy(t *testing.T) {
	log := NewLog(nil, nil)
	log.Info("first")

	entries := log.Entries()
	entries[0].Message = "changed"

	assert.Equal(t, "first", log.Entries()[0].Message)
}
