package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"syscall"

	"github.com/aukilabs/go-tooling/pkg/cli"
	"github.com/gekko3d/hlod"
	_ "github.com/gekko3d/hlod/batch"
	_ "github.com/gekko3d/hlod/simplify"
	_ "github.com/gekko3d/hlod/streaming"
	_ "github.com/gekko3d/hlod/userdata"
	"github.com/natefinch/lumberjack"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var version = "v0.1.0"

// Keeps the cli package able to read the option names after obfuscation.
var _ = reflect.TypeOf(config{})

type config struct {
	Scene       string `cli:""        env:"HLOD_SCENE"        help:"YAML file with the scene and the bake settings."`
	Report      string `cli:""        env:"HLOD_REPORT"       help:"Where to write the JSON bake report. Stdout when empty."`
	MetricsFile string `cli:""        env:"HLOD_METRICS_FILE" help:"Where to write Prometheus metrics in text format."`
	LogLevel    string `cli:""        env:"HLOD_LOG_LEVEL"    help:"Log level (debug|info|warn|error)."`
	LogFile     string `cli:""        env:"HLOD_LOG_FILE"     help:"Also write logs to this file, rotated."`
	LogMaxSize  int    `cli:",hidden" env:"HLOD_LOG_MAX_SIZE" help:"Log file size in megabytes before rotation."`
	Destroy     bool   `cli:""        env:"HLOD_DESTROY"      help:"Destroy the generated resources after baking."`
	Version     bool   `cli:""        env:"-"                 help:"Show version."`
	Help        bool   `cli:""        env:"-"                 help:"Show help."`
}

func main() {
	conf := config{
		LogLevel:   "info",
		LogMaxSize: 100,
	}

	ctx, cancel := cli.ContextWithSignals(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)
	defer cancel()

	cli.Register().
		Help("Bakes the HLOD structure of a scene.").
		Options(&conf)
	cli.Load()

	if conf.Version {
		fmt.Println(version)
		os.Exit(0)
	}

	z, err := newZapLogger(conf)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer z.Sync()

	if err := run(ctx, conf, z); err != nil {
		var cfgErr *hlod.ConfigError
		if errors.As(err, &cfgErr) {
			z.Error(cfgErr.Title, zap.String("message", cfgErr.Message))
			z.Sync()
			os.Exit(2)
		}
		z.Error("bake failed", zap.Error(err))
		z.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, conf config, z *zap.Logger) error {
	if conf.Scene == "" {
		return errors.New("no scene file given")
	}

	f, err := os.Open(conf.Scene)
	if err != nil {
		return err
	}
	root, cfg, err := loadBakeFile(f)
	f.Close()
	if err != nil {
		return err
	}

	h := hlod.New(root, cfg)
	h.Logger = hlod.NewLogger(z, z.Core().Enabled(zapcore.DebugLevel))
	h.Progress = progressLogger(z)

	if err := hlod.Create(ctx, h); err != nil {
		return err
	}

	if err := writeReport(conf.Report, newReport(h)); err != nil {
		return err
	}

	if conf.Destroy {
		if err := hlod.Destroy(ctx, h); err != nil {
			return fmt.Errorf("destroy: %w", err)
		}
	}

	if conf.MetricsFile != "" {
		if err := prometheus.WriteToTextfile(conf.MetricsFile, prometheus.DefaultGatherer); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}

func newZapLogger(conf config) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(conf.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", conf.LogLevel, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), level),
	}
	if conf.LogFile != "" {
		rotated := &lumberjack.Logger{
			Filename:   conf.LogFile,
			MaxSize:    conf.LogMaxSize,
			MaxBackups: 3,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(rotated), level))
	}
	return zap.New(zapcore.NewTee(cores...)).Named("hlod"), nil
}

// progressLogger logs every tenth of progress per stage.
func progressLogger(z *zap.Logger) hlod.Progress {
	lastInfo := ""
	lastStep := -1
	return hlod.ProgressFunc(func(title, info string, fraction float32) {
		step := int(fraction * 10)
		if info == lastInfo && step == lastStep {
			return
		}
		lastInfo, lastStep = info, step
		z.Debug(title, zap.String("stage", info), zap.Float32("progress", fraction))
	})
}
