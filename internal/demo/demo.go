// Package demo assembles the agents, tools and session data of each demo.
package demo

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iksnae/voice-desk/internal/agent"
	"github.com/iksnae/voice-desk/internal/store"
)

// Requirement names an external store a demo cannot run without.
type Requirement string

const (
	NeedStudents     Requirement = "students"
	NeedCars         Requirement = "cars"
	NeedPatients     Requirement = "patients"
	NeedAppointments Requirement = "appointments"
)

// Deps are the shared resources handed to every demo.
type Deps struct {
	Students     store.StudentStore
	Cars         store.CarStore
	Patients     store.PatientStore
	Appointments store.AppointmentStore

	Menu         string
	Model        string
	Voices       map[string]string
	DefaultVoice string
}

func (d Deps) voice(role agent.Role) string {
	if v, ok := d.Voices[role.String()]; ok && v != "" {
		return v
	}
	return d.DefaultVoice
}

func (d Deps) has(r Requirement) bool {
	switch r {
	case NeedStudents:
		return d.Students != nil
	case NeedCars:
		return d.Cars != nil
	case NeedPatients:
		return d.Patients != nil
	case NeedAppointments:
		return d.Appointments != nil
	}
	return false
}

// Demo describes one runnable conversation setup.
type Demo struct {
	Name        string
	Description string
	Root        agent.Role
	Fields      []agent.Field
	Needs       []Requirement

	build func(Deps) []*agent.Definition
}

// NeedsAny reports whether the demo requires any of rs.
func (d Demo) NeedsAny(rs ...Requirement) bool {
	for _, need := range d.Needs {
		for _, r := range rs {
			if need == r {
				return true
			}
		}
	}
	return false
}

// Definitions builds the agent definitions with model and voice filled in.
func (d Demo) Definitions(deps Deps) ([]*agent.Definition, error) {
	for _, need := range d.Needs {
		if !deps.has(need) {
			return nil, fmt.Errorf("demo %s needs the %s store", d.Name, need)
		}
	}
	defs := d.build(deps)
	for _, def := range defs {
		if def.Model == "" {
			def.Model = deps.Model
		}
		if def.Voice == "" {
			def.Voice = deps.voice(def.Role)
		}
	}
	return defs, nil
}

// NewSessionData creates fresh session data with one live agent per role.
func (d Demo) NewSessionData(deps Deps) (*agent.SessionData, error) {
	defs, err := d.Definitions(deps)
	if err != nil {
		return nil, err
	}
	data := agent.NewSessionData(d.Root, d.Fields...)
	data.Register(defs...)
	if _, ok := data.Agent(d.Root); !ok {
		return nil, fmt.Errorf("demo %s has no %s agent", d.Name, d.Root)
	}
	return data, nil
}

var registry = map[string]Demo{}

func register(d Demo) {
	if _, dup := registry[d.Name]; dup {
		panic("demo registered twice: " + d.Name)
	}
	registry[d.Name] = d
}

// Get returns the demo called name.
func Get(name string) (Demo, error) {
	d, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Demo{}, fmt.Errorf("unknown demo %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return d, nil
}

// All returns every demo ordered by name.
func All() []Demo {
	out := make([]Demo, 0, len(registry))
	for _, d := range registry {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Names returns the sorted demo names.
func Names() []string {
	var names []string
	for _, d := range All() {
		names = append(names, d.Name)
	}
	return names
}

func boolPtr(b bool) *bool { return &b }
