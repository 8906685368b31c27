package plan

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Library is the read-only reference data: plans, default exercises,
// body areas and the area to plan mapping.
type Library struct {
	Plans     []Plan              `yaml:"plans"`
	Exercises []Exercise          `yaml:"exercises"`
	Areas     []BodyArea          `yaml:"areas"`
	AreaPlans map[string][]string `yaml:"area_plans"`
}

// DefaultLibrary returns the built-in library
func DefaultLibrary() *Library {
	return &Library{
		Plans: []Plan{
			{ID: "1", Name: "Desk Stretch", Actions: 4, Intensity: IntensityLow},
			{ID: "2", Name: "Core Activation", Actions: 6, Intensity: IntensityMedium},
			{ID: "3", Name: "Upper Body Blast", Actions: 8, Intensity: IntensityHigh},
		},
		Exercises: []Exercise{
			{Name: "Neck Rotations", Description: "Gently rotate your head clockwise and counter-clockwise."},
			{Name: "Shoulder Rolls", Description: "Roll your shoulders back and down, then forward and up."},
			{Name: "Tricep Stretch", Description: "Reach hand behind head, gently pull elbow."},
			{Name: "Torso Twist", Description: "Twist your upper body side to side while sitting tall."},
			{Name: "Air Squats", Description: "Perform shallow squats while standing."},
			{Name: "Standing Side Bend", Description: "Reach one arm overhead and stretch to the opposite side."},
			{Name: "Wall Push-ups", Description: "Perform light push-ups with hands placed on a wall."},
			{Name: "Calf Raises", Description: "Stand up and raise your heels."},
		},
		Areas: []BodyArea{
			{ID: "neck", Label: "Neck & Shoulders"},
			{ID: "upper_back", Label: "Upper Back"},
			{ID: "lower_back", Label: "Lower Back & Core"},
			{ID: "hips", Label: "Hips & Hip Flexors"},
			{ID: "wrists", Label: "Wrists & Forearms"},
		},
		AreaPlans: map[string][]string{
			"neck":       {"1", "3"},
			"upper_back": {"3"},
			"lower_back": {"2"},
			"hips":       {"2"},
			"wrists":     {"1"},
		},
	}
}

// LoadLibrary reads a YAML library file. Sections left out of the file
// keep their built-in values.
func LoadLibrary(path string) (*Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading plan library: %w", err)
	}

	var fromFile Library
	if err := yaml.Unmarshal(data, &fromFile); err != nil {
		return nil, fmt.Errorf("parsing plan library: %w", err)
	}

	lib := DefaultLibrary()
	if len(fromFile.Plans) > 0 {
		lib.Plans = fromFile.Plans
	}
	if len(fromFile.Exercises) > 0 {
		lib.Exercises = fromFile.Exercises
	}
	if len(fromFile.Areas) > 0 {
		lib.Areas = fromFile.Areas
	}
	if fromFile.AreaPlans != nil {
		lib.AreaPlans = fromFile.AreaPlans
	}

	if err := lib.Validate(); err != nil {
		return nil, fmt.Errorf("plan library %s: %w", path, err)
	}
	return lib, nil
}

// Validate checks every plan and that the library is usable
func (l *Library) Validate() error {
	if len(l.Plans) == 0 {
		return fmt.Errorf("%w: library has no plans", ErrInvalidPlan)
	}
	seen := make(map[string]bool, len(l.Plans))
	for _, p := range l.Plans {
		if err := p.Validate(); err != nil {
			return err
		}
		if seen[p.ID] {
			return fmt.Errorf("%w: duplicate plan id %s", ErrInvalidPlan, p.ID)
		}
		seen[p.ID] = true
	}
	for _, a := range l.Areas {
		if a.ID == "" {
			return fmt.Errorf("body area with empty id")
		}
	}
	return nil
}

// Plan looks up a plan by id
func (l *Library) Plan(id string) (Plan, bool) {
	for _, p := range l.Plans {
		if p.ID == id {
			return p, true
		}
	}
	return Plan{}, false
}

// Area looks up a body area by id
func (l *Library) Area(id string) (BodyArea, bool) {
	for _, a := range l.Areas {
		if a.ID == id {
			return a, true
		}
	}
	return BodyArea{}, false
}

// AreaLabels returns labels for the given ids in library order,
// skipping unknown ids.
func (l *Library) AreaLabels(ids []string) []string {
	selected := make(map[string]bool, len(ids))
	for _, id := range ids {
		selected[id] = true
	}
	var labels []string
	for _, a := range l.Areas {
		if selected[a.ID] {
			labels = append(labels, a.Label)
		}
	}
	return labels
}

// ExercisePlans wraps each default exercise as a single-action plan
// for quick, focused practice.
func (l *Library) ExercisePlans() []Plan {
	plans := make([]Plan, 0, len(l.Exercises))
	for i, e := range l.Exercises {
		plans = append(plans, Plan{
			ID:        fmt.Sprintf("exercise-%d", i),
			Name:      e.Name,
			Actions:   1,
			Intensity: IntensityLow,
			Exercises: []Exercise{e},
		})
	}
	return plans
}

// Workout returns the exercises for p using this library's defaults
func (l *Library) Workout(p Plan) []Exercise {
	return p.Workout(l.Exercises)
}
