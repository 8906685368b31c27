package plan

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestRecommend(t *testing.T) {
	lib := DefaultLibrary()

	tests := []struct {
		name   string
		areas  []string
		wantID string
	}{
		{"empty profile picks most actions", nil, "3"},
		{"neck maps to first library match", []string{"neck"}, "1"},
		{"upper back", []string{"upper_back"}, "3"},
		{"lower back", []string{"lower_back"}, "2"},
		{"hips", []string{"hips"}, "2"},
		{"wrists", []string{"wrists"}, "1"},
		{"only first area counts", []string{"hips", "neck"}, "2"},
		{"unknown area falls back to most actions", []string{"ankles"}, "3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := lib.Recommend(tt.areas)
			if got.ID != tt.wantID {
				t.Errorf("Recommend(%v) = %s, want %s", tt.areas, got.ID, tt.wantID)
			}
		})
	}
}

func TestRecommend_Deterministic(t *testing.T) {
	lib := DefaultLibrary()
	first := lib.Recommend([]string{"neck"})
	for i := 0; i < 10; i++ {
		if got := lib.Recommend([]string{"neck"}); got.ID != first.ID {
			t.Fatalf("Recommend() changed between calls: %s then %s", first.ID, got.ID)
		}
	}
	if first.ID != "1" && first.ID != "3" {
		t.Errorf("neck recommendation %s not in mapped set {1,3}", first.ID)
	}
}

func TestRecommend_TieBreakAndInconsistentMapping(t *testing.T) {
	lib := &Library{
		Plans: []Plan{
			{ID: "a", Name: "A", Actions: 5, Intensity: IntensityLow},
			{ID: "b", Name: "B", Actions: 5, Intensity: IntensityHigh},
		},
		AreaPlans: map[string][]string{
			"neck":  {"missing"},
			"empty": {},
		},
	}

	if got := lib.Recommend(nil); got.ID != "a" {
		t.Errorf("tie should pick first plan, got %s", got.ID)
	}
	if got := lib.Recommend([]string{"empty"}); got.ID != "a" {
		t.Errorf("empty mapping should fall back to largest, got %s", got.ID)
	}
	if got := lib.Recommend([]string{"neck"}); got.ID != "a" {
		t.Errorf("unmatched mapping should fall back to first plan, got %s", got.ID)
	}
}

func TestPlanWorkout(t *testing.T) {
	lib := DefaultLibrary()

	t.Run("actions slice defaults", func(t *testing.T) {
		p, _ := lib.Plan("1")
		got := lib.Workout(p)
		if len(got) != 4 {
			t.Fatalf("len(Workout) = %d, want 4", len(got))
		}
		if got[0].Name != "Neck Rotations" || got[3].Name != "Torso Twist" {
			t.Errorf("Workout = %v, want first four defaults", got)
		}
	})

	t.Run("explicit exercises win", func(t *testing.T) {
		p := lib.ExercisePlans()[4]
		got := lib.Workout(p)
		if len(got) != 1 || got[0].Name != "Air Squats" {
			t.Errorf("Workout = %v, want [Air Squats]", got)
		}
	})

	t.Run("actions beyond defaults are capped", func(t *testing.T) {
		p := Plan{ID: "x", Name: "X", Actions: 20, Intensity: IntensityHigh}
		if got := lib.Workout(p); len(got) != len(lib.Exercises) {
			t.Errorf("len(Workout) = %d, want %d", len(got), len(lib.Exercises))
		}
	})
}

func TestPlanTotalSeconds(t *testing.T) {
	lib := DefaultLibrary()
	p, _ := lib.Plan("3")
	if got := p.TotalSeconds(); got != 8*SecondsPerExercise {
		t.Errorf("TotalSeconds() = %d, want %d", got, 8*SecondsPerExercise)
	}
	single := lib.ExercisePlans()[0]
	if got := single.TotalSeconds(); got != SecondsPerExercise {
		t.Errorf("TotalSeconds() = %d, want %d", got, SecondsPerExercise)
	}
}

func TestPlanValidate(t *testing.T) {
	tests := []struct {
		name    string
		plan    Plan
		wantErr bool
	}{
		{"valid actions plan", Plan{ID: "1", Name: "A", Actions: 3, Intensity: IntensityLow}, false},
		{"valid exercises plan", Plan{ID: "1", Name: "A", Actions: 1, Intensity: IntensityLow, Exercises: []Exercise{{Name: "x"}}}, false},
		{"actions mismatch", Plan{ID: "1", Name: "A", Actions: 2, Intensity: IntensityLow, Exercises: []Exercise{{Name: "x"}}}, true},
		{"unknown intensity", Plan{ID: "1", Name: "A", Actions: 1, Intensity: "Extreme"}, true},
		{"missing id", Plan{Name: "A", Actions: 1, Intensity: IntensityLow}, true},
		{"zero actions", Plan{ID: "1", Name: "A", Intensity: IntensityLow}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.plan.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidPlan) {
				t.Errorf("Validate() error = %v, want ErrInvalidPlan", err)
			}
		})
	}
}

func TestDefaultLibraryValid(t *testing.T) {
	if err := DefaultLibrary().Validate(); err != nil {
		t.Errorf("DefaultLibrary().Validate() = %v", err)
	}
}

func TestAreaLabels(t *testing.T) {
	lib := DefaultLibrary()
	got := lib.AreaLabels([]string{"wrists", "neck", "bogus"})
	if len(got) != 2 || got[0] != "Neck & Shoulders" || got[1] != "Wrists & Forearms" {
		t.Errorf("AreaLabels() = %v", got)
	}
}

func TestLoadLibrary(t *testing.T) {
	dir := t.TempDir()

	t.Run("overrides plans and keeps other sections", func(t *testing.T) {
		path := filepath.Join(dir, "plans.yaml")
		content := `plans:
  - id: "10"
    name: Morning Mobility
    actions: 2
    intensity: Low
  - id: "11"
    name: Wrist Care
    actions: 1
    intensity: Low
    exercises:
      - name: Wrist Circles
        description: Rotate both wrists slowly.
area_plans:
  wrists: ["11"]
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("writing library: %v", err)
		}

		lib, err := LoadLibrary(path)
		if err != nil {
			t.Fatalf("LoadLibrary() error = %v", err)
		}
		if len(lib.Plans) != 2 {
			t.Fatalf("len(Plans) = %d, want 2", len(lib.Plans))
		}
		if len(lib.Exercises) != 8 {
			t.Errorf("default exercises should be kept, got %d", len(lib.Exercises))
		}
		if got := lib.Recommend([]string{"wrists"}); got.ID != "11" {
			t.Errorf("Recommend(wrists) = %s, want 11", got.ID)
		}
		if got := lib.Recommend([]string{"neck"}); got.ID != "10" {
			t.Errorf("Recommend(neck) with no mapping = %s, want 10", got.ID)
		}
	})

	t.Run("rejects invalid plans", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		content := `plans:
  - id: "1"
    name: Broken
    actions: 3
    intensity: Low
    exercises:
      - name: Only One
`
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatalf("writing library: %v", err)
		}
		if _, err := LoadLibrary(path); !errors.Is(err, ErrInvalidPlan) {
			t.Errorf("LoadLibrary() error = %v, want ErrInvalidPlan", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if _, err := LoadLibrary(filepath.Join(dir, "nope.yaml")); err == nil {
			t.Error("expected error for missing file")
		}
	})
}
