package process

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefinitionsDefault(t *testing.T) {
	defs, err := LoadDefinitions("")
	require.NoError(t, err)

	assert.Len(t, defs.Agents, 4)
	assert.Len(t, defs.Tasks, 4)
	assert.Equal(t, "scoring_agent", defs.Tasks[TaskScoreIdeas].Agent)
}

func TestLoadDefinitionsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agents.yaml")
	require.NoError(t, os.WriteFile(path, defaultDefinitions, 0o600))

	_, err := LoadDefinitions(path)
	assert.NoError(t, err)

	_, err = LoadDefinitions(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParseDefinitionsInvalid(t *testing.T) {
	for _, tc := range []struct {
		name string
		yaml string
	}{
		{name: "not yaml", yaml: "agents: [unclosed"},
		{name: "missing tasks", yaml: "agents:\n  a:\n    role: r\n"},
		{
			name: "unknown agent",
			yaml: `agents:
  a: {role: r}
tasks:
  filter_comments_task: {agent: a, description: d}
  generate_video_ideas_task: {agent: a, description: d}
  research_video_ideas_task: {agent: a, description: d}
  score_video_ideas_task: {agent: b, description: d}
`,
		},
		{
			name: "empty description",
			yaml: `agents:
  a: {role: r}
tasks:
  filter_comments_task: {agent: a, description: " "}
  generate_video_ideas_task: {agent: a, description: d}
  research_video_ideas_task: {agent: a, description: d}
  score_video_ideas_task: {agent: a, description: d}
`,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseDefinitions([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestPrompt(t *testing.T) {
	defs, err := ParseDefinitions([]byte(`agents:
  critic:
    role: Critic
    goal: Judge things
    backstory: You judge.
tasks:
  filter_comments_task: {agent: critic, description: "Filter {what}.", expected_output: "{format} only"}
  generate_video_ideas_task: {agent: critic, description: d}
  research_video_ideas_task: {agent: critic, description: d}
  score_video_ideas_task: {agent: critic, description: d}
`))
	require.NoError(t, err)

	system, user, err := defs.Prompt(TaskFilterComments, map[string]string{"what": "comments", "format": "JSON"}, map[string]int{"n": 1})
	require.NoError(t, err)

	assert.Equal(t, "You are Critic.\nYou judge.\nYour personal goal is: Judge things\nYou always answer with a single JSON object and nothing else.", system)
	assert.Equal(t, "Filter comments.\n\nThis is the expected output: JSON only\n\nInput:\n{\n  \"n\": 1\n}", user)

	_, _, err = defs.Prompt("unknown_task", nil, nil)
	assert.Error(t, err)
}
