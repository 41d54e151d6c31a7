package main

import (
	"fmt"
	"io"
	"log"
	"os"

	"gopkg.in/yaml.v3"
)

type PushTrigger struct {
	Branches []string `yaml:"branches,omitempty"`
	Tags     []string `yaml:"tags,omitempty"`
}

type Trigger struct {
	Push        PushTrigger `yaml:"push,omitempty"`
	PullRequest *struct{}   `yaml:"pull_request,omitempty"`
}

type Args map[string]interface{}

type Step struct {
	Name string `yaml:"name,omitempty"`
	If   string `yaml:"if,omitempty"`
	Uses string `yaml:"uses,omitempty"`
	ID   string `yaml:"id,omitempty"`
	Run  string `yaml:"run,omitempty"`
	With Args   `yaml:"with,omitempty"`
	Env  Args   `yaml:"env,omitempty"`
}

type Strategy struct {
	Matrix map[string][]string `yaml:"matrix"`
}

type Job struct {
	RunsOn   string    `yaml:"runs-on"`
	Needs    []string  `yaml:"needs,omitempty"`
	Strategy *Strategy `yaml:"strategy,omitempty"`
	Steps    []Step    `yaml:"steps"`
}

type Workflow struct {
	Name string  `yaml:"name"`
	On   Trigger `yaml:"on,omitempty"`
	Jobs map[string]Job
}

const goVersion = "1.22"

func setupSteps() []Step {
	return []Step{{
		Name: "Checkout",
		Uses: "actions/checkout@v4",
	}, {
		Name: "Set up Go",
		Uses: "actions/setup-go@v5",
		With: Args{"go-version": goVersion},
	}}
}

func JobTest() Job {
	return Job{
		RunsOn: "ubuntu-latest",
		Steps: append(setupSteps(), Step{
			Name: "Vet",
			Run:  "go vet ./...",
		}, Step{
			Name: "Test",
			Run:  "go test -race ./...",
		}),
	}
}

// JobRelease cross-compiles the `newfs` binary for each architecture and
// uploads it as a build artifact.
func JobRelease(target string, arches ...string) Job {
	return Job{
		RunsOn:   "ubuntu-latest",
		Needs:    []string{"test"},
		Strategy: &Strategy{Matrix: map[string][]string{"goarch": arches}},
		Steps: append(setupSteps(), Step{
			Name: "Build",
			Run: fmt.Sprintf(
				"go build -o dist/%[1]s-linux-${{ matrix.goarch }} ./cmd/%[1]s",
				target,
			),
			Env: Args{"GOOS": "linux", "GOARCH": "${{ matrix.goarch }}"},
		}, Step{
			Name: "Upload",
			If:   "startsWith(github.ref, 'refs/tags/')",
			Uses: "actions/upload-artifact@v4",
			With: Args{
				"name": fmt.Sprintf("%s-linux-${{ matrix.goarch }}", target),
				"path": "dist/",
			},
		}),
	}
}

func WorkflowCI() Workflow {
	return Workflow{
		Name: "ci",
		On: Trigger{
			Push: PushTrigger{
				Branches: []string{"*"},
				Tags:     []string{"*"},
			},
			PullRequest: &struct{}{},
		},
		Jobs: map[string]Job{
			"test":    JobTest(),
			"release": JobRelease("newfs", "amd64", "arm64"),
		},
	}
}

func MarshalToWriter(w io.Writer, v interface{}) error {
	yamlEncoder := yaml.NewEncoder(w)
	yamlEncoder.SetIndent(2)
	if err := yamlEncoder.Encode(v); err != nil {
		return fmt.Errorf("marshaling to YAML: %w", err)
	}
	return nil
}

func main() {
	if err := MarshalToWriter(os.Stdout, WorkflowCI()); err != nil {
		log.Fatalf("marshaling ci workflow: %v", err)
	}
}
