package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/iksnae/voice-desk/internal"
	"github.com/iksnae/voice-desk/internal/agent"
	"github.com/iksnae/voice-desk/internal/demo"
	"github.com/iksnae/voice-desk/internal/llm"
	"github.com/iksnae/voice-desk/internal/server"
	"github.com/iksnae/voice-desk/internal/store/mongo"
	"github.com/iksnae/voice-desk/internal/store/sqlite"
	"github.com/iksnae/voice-desk/internal/voice"
	"github.com/rs/zerolog/log"
)

var errMissingAPIKey = errors.New("no API key set (GROQ_API_KEY, OPENAI_API_KEY or VOICE_DESK_LLM_API_KEY)")

// requirements collects the stores needed by demos, without duplicates.
func requirements(demos ...demo.Demo) []demo.Requirement {
	seen := map[demo.Requirement]bool{}
	var out []demo.Requirement
	for _, d := range demos {
		for _, r := range d.Needs {
			if !seen[r] {
				seen[r] = true
				out = append(out, r)
			}
		}
	}
	return out
}

func needs(reqs []demo.Requirement, wanted ...demo.Requirement) bool {
	for _, r := range reqs {
		for _, want := range wanted {
			if r == want {
				return true
			}
		}
	}
	return false
}

// wireDeps opens the stores reqs name and returns them with a cleanup that
// closes every handle. With strictMongo a missing connection string is fatal;
// otherwise the Mongo-backed stores are left out.
func wireDeps(ctx context.Context, cfg *internal.Config, reqs []demo.Requirement, strictMongo bool) (demo.Deps, func(), error) {
	for role := range cfg.Voice.Voices {
		if _, err := agent.ParseRole(role); err != nil {
			return demo.Deps{}, func() {}, &internal.ConfigError{Key: "voice.voices." + role, Err: err}
		}
	}

	deps := demo.Deps{
		Menu:         cfg.Menu,
		Model:        cfg.LLM.Model,
		Voices:       cfg.Voice.Voices,
		DefaultVoice: cfg.Voice.TTSVoice,
	}

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (demo.Deps, func(), error) {
		cleanup()
		return demo.Deps{}, func() {}, err
	}

	if needs(reqs, demo.NeedStudents) {
		db, err := internal.OpenDatabase(cfg.Data.StudentsDB)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() { _ = db.Close() })
		students, err := sqlite.NewStudentStore(db, cfg.Data.StudentsDB)
		if err != nil {
			return fail(err)
		}
		deps.Students = students
	}

	if needs(reqs, demo.NeedCars) {
		db, err := internal.OpenDatabase(cfg.Data.CarsDB)
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() { _ = db.Close() })
		cars, err := sqlite.NewCarStore(db, cfg.Data.CarsDB)
		if err != nil {
			return fail(err)
		}
		deps.Cars = cars
	}

	if needs(reqs, demo.NeedPatients, demo.NeedAppointments) {
		if err := cfg.RequireMongo(); err != nil {
			if strictMongo {
				return fail(err)
			}
			internal.PrintWarning("MongoDB is not configured; demos that need medical records are disabled")
			return deps, cleanup, nil
		}

		var client *mongo.Client
		err := internal.ShowProgress(ctx, "Connecting to MongoDB", func() error {
			var err error
			client, err = mongo.Connect(ctx, mongo.Config{
				URI:            cfg.MongoDB.ConnectionString,
				Database:       cfg.MongoDB.Database,
				ConnectTimeout: cfg.MongoDB.ConnectTimeout,
			})
			return err
		})
		if err != nil {
			return fail(err)
		}
		closers = append(closers, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Close(ctx); err != nil {
				log.Warn().Err(err).Msg("Failed to disconnect from MongoDB")
			}
		})
		deps.Patients = client.Patients()
		deps.Appointments = client.Appointments()
	}

	return deps, cleanup, nil
}

func newLLMClient(cfg *internal.Config) (llm.Client, error) {
	if cfg.LLM.APIKey == "" {
		return nil, &internal.ConfigError{Key: "llm.api_key", Err: errMissingAPIKey}
	}
	return llm.NewOpenAIClient(llm.Config{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
		Timeout: cfg.LLM.Timeout,
	})
}

// newSessionFactory builds fresh session data per conversation over shared deps.
func newSessionFactory(cfg *internal.Config, deps demo.Deps, client llm.Client) server.SessionFactory {
	return func(name string, out voice.Output) (*voice.Session, error) {
		d, err := demo.Get(name)
		if err != nil {
			return nil, err
		}
		data, err := d.NewSessionData(deps)
		if err != nil {
			return nil, err
		}
		return voice.New(data, voice.Options{
			Demo:         d.Name,
			LLM:          client,
			MaxToolSteps: cfg.Sessions.MaxToolSteps,
			Output:       out,
		})
	}
}
