package task

import (
	"testing"

	"github.com/Nyukimin/kibalone_studio/internal/domain/routing"
)

func TestNewTask(t *testing.T) {
	jobID := NewJobID()
	task := NewTask(jobID, "crée un personnage", SourceHTTP)

	if task.JobID() != jobID {
		t.Errorf("Expected JobID %s, got %s", jobID.String(), task.JobID().String())
	}

	if task.Prompt() != "crée un personnage" {
		t.Errorf("Expected prompt, got '%s'", task.Prompt())
	}

	if task.Source() != SourceHTTP {
		t.Errorf("Expected source 'http', got '%s'", task.Source())
	}

	if task.Route() != "" {
		t.Error("New task should not have a route")
	}
}

func TestTaskWithRoute(t *testing.T) {
	task := NewTask(NewJobID(), "vide la scène", SourceCLI)

	taskWithRoute := task.WithRoute(routing.RouteSimple)

	if taskWithRoute.Route() != routing.RouteSimple {
		t.Errorf("Expected route simple, got %s", taskWithRoute.Route())
	}

	// 元のtaskは変更されない（イミュータブル）
	if task.Route() != "" {
		t.Error("Original task should not be modified")
	}
}

func TestTaskIsBlank(t *testing.T) {
	tests := []struct {
		name   string
		prompt string
		blank  bool
	}{
		{"空文字", "", true},
		{"空白のみ", "   \t\n", true},
		{"通常", "zoom avant", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := NewTask(NewJobID(), tt.prompt, SourceHTTP)
			if task.IsBlank() != tt.blank {
				t.Errorf("IsBlank() = %v, want %v", task.IsBlank(), tt.blank)
			}
		})
	}
}
