package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/klokku/studygrid/pkg/grid"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	log "github.com/sirupsen/logrus"
)

type Application struct {
	Host    string      `koanf:"host"`
	Listen  string      `koanf:"listen"`
	Grid    Grid        `koanf:"grid"`
	Gesture Gesture     `koanf:"gesture"`
	Export  Export      `koanf:"export"`
	Stats   Stats       `koanf:"stats"`
	Seed    []SeedEvent `koanf:"seed"`
}

type Grid struct {
	OriginX      float64 `koanf:"originx"`
	ColumnWidth  float64 `koanf:"columnwidth"`
	OriginY      float64 `koanf:"originy"`
	HourHeightPx float64 `koanf:"hourheight"`
	StartHour    int     `koanf:"starthour"`
	EndHour      int     `koanf:"endhour"`
	SnapMinutes  int     `koanf:"snapminutes"`
	MinHeightPx  float64 `koanf:"minheight"`
}

type Gesture struct {
	// StaleTimeout is how long a gesture may go without updates before another gesture
	// on the same event is allowed to replace it.
	StaleTimeout time.Duration `koanf:"staletimeout"`
	// Sweep is the cron schedule for dropping stale gestures.
	Sweep string `koanf:"sweep"`
}

type Export struct {
	Timezone  string `koanf:"timezone"`
	ProductId string `koanf:"productid"`
}

type Stats struct {
	// DailyTarget is the study time aimed for on every day of the week.
	DailyTarget time.Duration `koanf:"dailytarget"`
}

// SeedEvent is a study event loaded into the calendar at startup. Empty optional fields
// get the calendar defaults.
type SeedEvent struct {
	Title       string `koanf:"title"`
	Type        string `koanf:"type"`
	Subject     string `koanf:"subject"`
	Start       string `koanf:"start"`
	Duration    int    `koanf:"duration"`
	Day         int    `koanf:"day"`
	Difficulty  string `koanf:"difficulty"`
	Priority    string `koanf:"priority"`
	Progress    int    `koanf:"progress"`
	Completed   bool   `koanf:"completed"`
	Color       string `koanf:"color"`
	Icon        string `koanf:"icon"`
	Description string `koanf:"description"`
}

func (g Grid) Geometry() grid.Geometry {
	return grid.Geometry{
		GridOriginX:  g.OriginX,
		ColumnWidth:  g.ColumnWidth,
		GridOriginY:  g.OriginY,
		HourHeightPx: g.HourHeightPx,
		StartHour:    g.StartHour,
		EndHour:      g.EndHour,
		SnapMinutes:  g.SnapMinutes,
		MinHeightPx:  g.MinHeightPx,
	}
}

func defaults() Application {
	geo := grid.DefaultGeometry()
	return Application{
		Host:   "http://localhost:3000",
		Listen: ":8181",
		Grid: Grid{
			OriginX:      geo.GridOriginX,
			ColumnWidth:  geo.ColumnWidth,
			OriginY:      geo.GridOriginY,
			HourHeightPx: geo.HourHeightPx,
			StartHour:    geo.StartHour,
			EndHour:      geo.EndHour,
			SnapMinutes:  geo.SnapMinutes,
			MinHeightPx:  geo.MinHeightPx,
		},
		Gesture: Gesture{
			StaleTimeout: 2 * time.Minute,
			Sweep:        "@every 1m",
		},
		Export: Export{
			Timezone:  "UTC",
			ProductId: "-//StudyGrid//Study Tracker//EN",
		},
		Stats: Stats{
			DailyTarget: 4 * time.Hour,
		},
		Seed: []SeedEvent{
			{
				Title: "React Hooks Chapter", Type: "session", Subject: "Frontend",
				Start: "09:00", Duration: 90, Day: 0, Difficulty: "Medium", Priority: "High",
				Progress: 100, Completed: true, Color: "from-sky-300/80 to-sky-400/80", Icon: "📘",
				Description: "Deep dive into React Hooks and state management",
			},
			{
				Title: "Math Assignment Due", Type: "deadline", Subject: "Mathematics",
				Start: "14:00", Duration: 60, Day: 1, Difficulty: "Hard", Priority: "High",
				Progress: 75, Color: "from-rose-300/80 to-pink-300/80", Icon: "📝",
				Description: "Calculus problems chapter 7-9",
			},
			{
				Title: "JavaScript Practice", Type: "task", Subject: "Programming",
				Start: "16:30", Duration: 45, Day: 1, Difficulty: "Easy", Priority: "Medium",
				Progress: 30, Color: "from-emerald-300/80 to-emerald-400/80", Icon: "💻",
				Description: "Practice array methods and async/await",
			},
			{
				Title: "Physics Lab Report", Type: "task", Subject: "Physics",
				Start: "19:00", Duration: 120, Day: 3, Difficulty: "Hard", Priority: "Medium",
				Color: "from-purple-300/80 to-violet-300/80", Icon: "🔬",
				Description: "Complete lab report for electromagnetic induction experiment",
			},
			{
				Title: "Biology Quiz Prep", Type: "session", Subject: "Biology",
				Start: "10:30", Duration: 60, Day: 4, Difficulty: "Medium", Priority: "High",
				Color: "from-teal-300/80 to-teal-400/80", Icon: "🧬",
				Description: "Review cell division and genetics concepts",
			},
		},
	}
}

func Load(path string) (Application, error) {
	var k = koanf.New(".")

	err := k.Load(structs.Provider(defaults(), "koanf"), nil)
	if err != nil {
		log.Errorf("error loading config from structs: %v", err)
		return Application{}, err
	}

	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		if os.IsNotExist(err) {
			log.Infof("Config file not found at %s, using defaults and environment variables", path)
		} else {
			log.Errorf("error loading config from YAML: %v", err)
			return Application{}, err
		}
	} else {
		log.Infof("Loaded configuration from file: %s", path)
	}

	err = k.Load(env.Provider(".", env.Opt{
		Prefix: "STUDYGRID_",
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, "STUDYGRID_")), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		log.Errorf("error loading config from envs: %v", err)
		return Application{}, err
	}

	var app Application
	if err := k.Unmarshal("", &app); err != nil {
		return Application{}, err
	}
	if err := app.Grid.Geometry().Validate(); err != nil {
		return Application{}, fmt.Errorf("invalid grid configuration: %w", err)
	}

	return app, nil
}
