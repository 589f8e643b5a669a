package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"
	"time"

	"othello/game"
	"othello/searcher"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultFile is looked up in the working directory when no path is given.
	DefaultFile = "othello"
	EnvPrefix   = "OTHELLO"

	KindHuman = "human"
)

var ErrUnknownEval = errors.New("unknown evaluation function")

type Config struct {
	Log     Log     `mapstructure:"log" yaml:"log"`
	Dark    Player  `mapstructure:"dark" yaml:"dark"`
	Light   Player  `mapstructure:"light" yaml:"light"`
	Arena   Arena   `mapstructure:"arena" yaml:"arena"`
	History History `mapstructure:"history" yaml:"history"`
}

type Log struct {
	Level string `mapstructure:"level" yaml:"level"`
}

// Player configures one side: a human or one of the searchers.
type Player struct {
	Kind     string        `mapstructure:"kind" yaml:"kind"`
	Depth    int           `mapstructure:"depth" yaml:"depth"`
	Duration time.Duration `mapstructure:"duration" yaml:"duration"`
	Episodes int           `mapstructure:"episodes" yaml:"episodes"`
	Seed     uint64        `mapstructure:"seed" yaml:"seed"`
	Eval     string        `mapstructure:"eval" yaml:"eval"`
}

type Arena struct {
	Games      int    `mapstructure:"games" yaml:"games"`
	Workers    int    `mapstructure:"workers" yaml:"workers"`
	Output     string `mapstructure:"output" yaml:"output"`
	SwapColors bool   `mapstructure:"swap_colors" yaml:"swap_colors"`
}

type History struct {
	Backend string `mapstructure:"backend" yaml:"backend"`
	Path    string `mapstructure:"path" yaml:"path"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")

	for side, kind := range map[string]string{"dark": KindHuman, "light": string(searcher.KindAlphaBeta)} {
		v.SetDefault(side+".kind", kind)
		v.SetDefault(side+".depth", 0)
		v.SetDefault(side+".duration", time.Duration(0))
		v.SetDefault(side+".episodes", 0)
		v.SetDefault(side+".seed", 0)
		v.SetDefault(side+".eval", "heuristic")
	}

	v.SetDefault("arena.games", 20)
	v.SetDefault("arena.workers", 4)
	v.SetDefault("arena.output", "experiments")
	v.SetDefault("arena.swap_colors", true)

	v.SetDefault("history.backend", "json")
	v.SetDefault("history.path", "data/game_history.json")
}

// Load reads defaults, then the YAML file at path, then OTHELLO_* environment
// variables (OTHELLO_LIGHT_DEPTH sets light.depth). With an empty path an
// optional othello.yaml in the working directory is used.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName(DefaultFile)
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	c := &Config{}
	if err := v.Unmarshal(c); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) Validate() error {
	for _, p := range []Player{c.Dark, c.Light} {
		if _, err := p.Options(); err != nil {
			return err
		}
		if !p.IsHuman() {
			if _, err := searcher.ParseKind(p.Kind); err != nil {
				return fmt.Errorf("invalid player kind: %w", err)
			}
		}
	}
	if c.Arena.Games < 0 || c.Arena.Workers < 0 {
		return fmt.Errorf("arena games and workers must not be negative")
	}
	return nil
}

// Player returns the settings of the side playing color.
func (c *Config) Player(color game.Color) Player {
	if color == game.Light {
		return c.Light
	}
	return c.Dark
}

// Dump writes c as YAML.
func (c *Config) Dump(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return enc.Close()
}

func (p Player) IsHuman() bool {
	return strings.EqualFold(p.Kind, KindHuman)
}

// Options translates p into searcher options.
func (p Player) Options() ([]searcher.Option, error) {
	options := []searcher.Option{
		searcher.WithDepth(p.Depth),
		searcher.WithDuration(p.Duration),
		searcher.WithEpisodes(p.Episodes),
	}
	if p.Seed != 0 {
		options = append(options, searcher.WithSeed(p.Seed))
	}

	switch strings.ToLower(p.Eval) {
	case "", "heuristic":
		options = append(options, searcher.WithEvaluationFn(game.EvaluateHeuristic))
	case "discs":
		options = append(options, searcher.WithEvaluationFn(game.EvaluateDiscs))
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownEval, p.Eval)
	}
	return options, nil
}

// Searcher builds the searcher p describes. Extra options apply last.
func (p Player) Searcher(extra ...searcher.Option) (searcher.Searcher, error) {
	kind, err := searcher.ParseKind(p.Kind)
	if err != nil {
		return nil, err
	}
	options, err := p.Options()
	if err != nil {
		return nil, err
	}
	return searcher.New(kind, append(options, extra...)...)
}

// String describes p the way it shows up in match history.
func (p Player) String() string {
	if p.IsHuman() {
		return KindHuman
	}
	var budget []string
	if p.Depth > 0 {
		budget = append(budget, fmt.Sprintf("depth=%d", p.Depth))
	}
	if p.Duration > 0 {
		budget = append(budget, "time="+p.Duration.String())
	}
	if p.Episodes > 0 {
		budget = append(budget, fmt.Sprintf("episodes=%d", p.Episodes))
	}
	if len(budget) == 0 {
		return strings.ToLower(p.Kind)
	}
	return fmt.Sprintf("%s(%s)", strings.ToLower(p.Kind), strings.Join(budget, ","))
}

// MarshalYAML writes durations in their readable form.
func (p Player) MarshalYAML() (interface{}, error) {
	return struct {
		Kind     string `yaml:"kind"`
		Depth    int    `yaml:"depth"`
		Duration string `yaml:"duration"`
		Episodes int    `yaml:"episodes"`
		Seed     uint64 `yaml:"seed"`
		Eval     string `yaml:"eval"`
	}{p.Kind, p.Depth, p.Duration.String(), p.Episodes, p.Seed, p.Eval}, nil
}
