package process

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	TaskFilterComments = "filter_comments_task"
	TaskGenerateIdeas  = "generate_video_ideas_task"
	TaskResearchIdeas  = "research_video_ideas_task"
	TaskScoreIdeas     = "score_video_ideas_task"
)

//go:embed agents.yaml
var defaultDefinitions []byte

type Agent struct {
	Role      string `yaml:"role"`
	Goal      string `yaml:"goal"`
	Backstory string `yaml:"backstory"`
}

type Task struct {
	Agent          string `yaml:"agent"`
	Description    string `yaml:"description"`
	ExpectedOutput string `yaml:"expected_output"`
}

// Definitions holds the agents and the tasks they perform. Every pipeline
// step looks up its task by name.
type Definitions struct {
	Agents map[string]Agent `yaml:"agents"`
	Tasks  map[string]Task  `yaml:"tasks"`
}

// LoadDefinitions reads definitions from path, or returns the built in ones
// when path is empty.
func LoadDefinitions(path string) (*Definitions, error) {
	if path == "" {
		return ParseDefinitions(defaultDefinitions)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read definitions: %w", err)
	}

	return ParseDefinitions(data)
}

func ParseDefinitions(data []byte) (*Definitions, error) {
	var defs Definitions
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return nil, fmt.Errorf("could not parse definitions: %w", err)
	}

	for _, name := range []string{TaskFilterComments, TaskGenerateIdeas, TaskResearchIdeas, TaskScoreIdeas} {
		task, ok := defs.Tasks[name]
		if !ok {
			return nil, fmt.Errorf("task %s is not defined", name)
		}
		if strings.TrimSpace(task.Description) == "" {
			return nil, fmt.Errorf("task %s has no description", name)
		}
		if _, ok := defs.Agents[task.Agent]; !ok {
			return nil, fmt.Errorf("task %s refers to unknown agent %q", name, task.Agent)
		}
	}

	return &defs, nil
}

// Prompt renders the system and user message for a task. Placeholders of the
// form {name} in the task text are replaced from vars, and input is appended
// as JSON.
func (d *Definitions) Prompt(taskName string, vars map[string]string, input any) (string, string, error) {
	task, ok := d.Tasks[taskName]
	if !ok {
		return "", "", fmt.Errorf("task %s is not defined", taskName)
	}
	agent := d.Agents[task.Agent]

	system := fmt.Sprintf("You are %s.\n%s\nYour personal goal is: %s\nYou always answer with a single JSON object and nothing else.",
		strings.TrimSpace(agent.Role),
		strings.TrimSpace(agent.Backstory),
		strings.TrimSpace(agent.Goal),
	)

	inputJSON, err := json.MarshalIndent(input, "", "  ")
	if err != nil {
		return "", "", fmt.Errorf("could not marshal input for %s: %w", taskName, err)
	}

	var replacements []string
	for k, v := range vars {
		replacements = append(replacements, "{"+k+"}", v)
	}
	r := strings.NewReplacer(replacements...)

	user := fmt.Sprintf("%s\n\nThis is the expected output: %s\n\nInput:\n%s",
		r.Replace(strings.TrimSpace(task.Description)),
		r.Replace(strings.TrimSpace(task.ExpectedOutput)),
		inputJSON,
	)

	return system, user, nil
}
