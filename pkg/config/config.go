// Package config loads ganttgrid settings from TOML files.
//
// Settings live in $XDG_CONFIG_HOME/ganttgrid/config.toml (or
// ~/.config/ganttgrid/config.toml). A missing file yields [Default]. Every
// key is optional:
//
//	[columns]
//	scale = "hour"
//	column_width = 3
//	weekend_days = ["saturday", "sunday"]
//	show_weekends = false
//	work_hours = [9, 10, 11, 12, 13, 14, 15, 16, 17]
//
//	[layout]
//	out_of_range = "truncate"
//	magnet = "15 minutes"
//	timezone = "Europe/Berlin"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/ganttgrid/pkg/calendar"
	"github.com/matzehuels/ganttgrid/pkg/column"
	"github.com/matzehuels/ganttgrid/pkg/errors"
	"github.com/matzehuels/ganttgrid/pkg/gantt"
	"github.com/matzehuels/ganttgrid/pkg/header"
)

const appName = "ganttgrid"

// Cache backends.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config is the file representation of all settings.
type Config struct {
	View
	Cache  Cache  `toml:"cache" json:"cache"`
	Server Server `toml:"server" json:"server"`
}

// View holds the settings that shape a layout. It is the part of the
// configuration that API requests may override.
type View struct {
	Columns Columns `toml:"columns" json:"columns"`
	Headers Headers `toml:"headers" json:"headers"`
	Layout  Layout  `toml:"layout" json:"layout"`
}

// Columns configures the column grid.
type Columns struct {
	Scale            string   `toml:"scale" json:"scale"`
	Width            float64  `toml:"width" json:"width"`
	ColumnWidth      float64  `toml:"column_width" json:"column_width"`
	SubScale         int      `toml:"sub_scale" json:"sub_scale"`
	WeekendDays      []string `toml:"weekend_days" json:"weekend_days"`
	ShowWeekends     bool     `toml:"show_weekends" json:"show_weekends"`
	WorkHours        []int    `toml:"work_hours" json:"work_hours"`
	ShowNonWorkHours bool     `toml:"show_non_work_hours" json:"show_non_work_hours"`
	FirstDayOfWeek   string   `toml:"first_day_of_week" json:"first_day_of_week"`
}

// Headers toggles header bands.
type Headers struct {
	Hour  bool `toml:"hour" json:"hour"`
	Day   bool `toml:"day" json:"day"`
	Week  bool `toml:"week" json:"week"`
	Month bool `toml:"month" json:"month"`
}

// Layout configures the coordinator policies.
type Layout struct {
	OutOfRange string `toml:"out_of_range" json:"out_of_range"`
	AutoExpand string `toml:"auto_expand" json:"auto_expand"`
	Sort       string `toml:"sort" json:"sort"`
	Magnet     string `toml:"magnet" json:"magnet"`
	Timezone   string `toml:"timezone" json:"timezone"`
}

// Cache selects the layout cache backend.
type Cache struct {
	Backend  string   `toml:"backend" json:"backend"`
	Dir      string   `toml:"dir" json:"dir"`
	RedisURL string   `toml:"redis_url" json:"redis_url"`
	TTL      Duration `toml:"ttl" json:"ttl"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string   `toml:"addr" json:"addr"`
	ReadTimeout  Duration `toml:"read_timeout" json:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout" json:"write_timeout"`
}

// Duration is a time.Duration read from strings such as "24h".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "duration %q", text)
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		View: DefaultView(),
		Cache: Cache{
			Backend: CacheFile,
			TTL:     Duration{24 * time.Hour},
		},
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  Duration{10 * time.Second},
			WriteTimeout: Duration{30 * time.Second},
		},
	}
}

// DefaultView returns the built-in layout settings.
func DefaultView() View {
	return View{
		Columns: Columns{
			Scale:            calendar.Day.String(),
			ColumnWidth:      2,
			SubScale:         4,
			WeekendDays:      []string{"saturday", "sunday"},
			ShowWeekends:     true,
			WorkHours:        []int{8, 9, 10, 11, 12, 13, 14, 15, 16},
			ShowNonWorkHours: true,
			FirstDayOfWeek:   "sunday",
		},
		Headers: Headers{Hour: true, Day: true, Week: true, Month: true},
		Layout: Layout{
			OutOfRange: string(gantt.OutOfRangeExpand),
			AutoExpand: string(gantt.AutoExpandNone),
			Sort:       gantt.SortByName,
			Timezone:   "UTC",
		},
	}
}

// Dir returns the configuration directory using the XDG convention.
func Dir() (string, error) {
	if home := os.Getenv("XDG_CONFIG_HOME"); home != "" {
		return filepath.Join(home, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// DefaultPath returns the path of the default configuration file.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads path on top of [Default]. An empty path loads the default
// file, which may be absent.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, nil
		}
		path = p
	}
	if err := errors.ValidatePath(path); err != nil {
		return cfg, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		if os.IsNotExist(err) {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}
	if err := Decode(string(data), &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %s", path)
	}
	return cfg, cfg.Validate()
}

// Decode parses TOML text into cfg, rejecting unknown keys.
func Decode(text string, cfg *Config) error {
	md, err := toml.Decode(text, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown keys: %s", strings.Join(keys, ", "))
	}
	return nil
}

// Validate checks that the settings convert into coordinator options.
func (c Config) Validate() error {
	if _, err := c.GanttOptions(); err != nil {
		return err
	}
	switch c.Cache.Backend {
	case CacheNone, CacheFile, CacheRedis:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown cache backend %q", c.Cache.Backend)
	}
	if c.Cache.Backend == CacheRedis && c.Cache.RedisURL == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "redis cache requires redis_url")
	}
	return nil
}

// Location returns the timezone for dates without an offset.
func (v View) Location() (*time.Location, error) {
	if v.Layout.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(v.Layout.Timezone)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "timezone %q", v.Layout.Timezone)
	}
	return loc, nil
}

// GanttOptions converts the settings into coordinator options.
func (v View) GanttOptions() (gantt.Options, error) {
	opts := gantt.DefaultOptions()

	scale, err := calendar.ParseScale(v.Columns.Scale)
	if err != nil {
		return opts, err
	}
	weekend, err := parseWeekdays(v.Columns.WeekendDays)
	if err != nil {
		return opts, err
	}
	first := time.Sunday
	if v.Columns.FirstDayOfWeek != "" {
		if first, err = parseWeekday(v.Columns.FirstDayOfWeek); err != nil {
			return opts, err
		}
	}
	for _, h := range v.Columns.WorkHours {
		if h < 0 || h > 23 {
			return opts, errors.New(errors.ErrCodeInvalidConfig, "work hour %d out of range 0-23", h)
		}
	}
	magnet, err := calendar.ParseMagnet(v.Layout.Magnet)
	if err != nil {
		return opts, err
	}

	opts.Columns = column.Options{
		Scale:            scale,
		Width:            v.Columns.Width,
		ColumnWidth:      v.Columns.ColumnWidth,
		SubScale:         v.Columns.SubScale,
		WeekendDays:      weekend,
		ShowWeekends:     v.Columns.ShowWeekends,
		WorkHours:        calendar.NewHourSet(v.Columns.WorkHours...),
		ShowNonWorkHours: v.Columns.ShowNonWorkHours,
		FirstDayOfWeek:   first,
	}
	opts.Headers = header.Show(v.Headers)
	opts.OutOfRange = gantt.OutOfRange(v.Layout.OutOfRange)
	opts.AutoExpand = gantt.AutoExpand(v.Layout.AutoExpand)
	opts.SortMode = v.Layout.Sort
	opts.Magnet = magnet
	return opts, opts.Validate()
}

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

func parseWeekday(s string) (time.Weekday, error) {
	d, ok := weekdays[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return 0, errors.New(errors.ErrCodeInvalidConfig, "unknown weekday %q", s)
	}
	return d, nil
}

func parseWeekdays(names []string) (calendar.WeekdaySet, error) {
	days := make([]time.Weekday, 0, len(names))
	for _, n := range names {
		d, err := parseWeekday(n)
		if err != nil {
			return 0, err
		}
		days = append(days, d)
	}
	return calendar.NewWeekdaySet(days...), nil
}
