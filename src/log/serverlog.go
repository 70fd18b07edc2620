package log

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// 在InitLog之前都是no-op
var (
	DBLogger   = zap.NewNop().Sugar()
	NetLogger  = zap.NewNop().Sugar()
	CronLogger = zap.NewNop().Sugar()
	allLogger  []*zap.SugaredLogger
)

type LogConfig struct {
	Path string `yaml:"path"`
	// 日志大小限制，单位MB
	MaxSize int `yaml:"maxSize"`
	// 历史日志文件保留天数
	MaxAge int `yaml:"maxAge"`
	// 最大保留历史日志数量
	MaxBackups   int               `yaml:"maxBackups"`
	DefaultLevel string            `yaml:"defaultLevel"`
	Levels       map[string]string `yaml:"levels"`
}

func newEncoderConfig() zapcore.EncoderConfig {
	encoderConfig := zap.NewDevelopmentEncoderConfig()
	encoderConfig.ConsoleSeparator = "\t"
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	encoderConfig.EncodeCaller = zapcore.ShortCallerEncoder
	encoderConfig.EncodeDuration = zapcore.SecondsDurationEncoder
	encoderConfig.EncodeName = zapcore.FullNameEncoder
	encoderConfig.FunctionKey = "func"
	return encoderConfig
}

func newRotateWriter(config *LogConfig, name string) zapcore.WriteSyncer {
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   config.Path + "/" + name + ".log",
		MaxSize:    config.MaxSize,
		MaxAge:     config.MaxAge,
		MaxBackups: config.MaxBackups,
		LocalTime:  true,
		Compress:   false,
	})
}

func createErrorCore(config *LogConfig) zapcore.Core {
	if config.Path == "" {
		return zapcore.NewNopCore()
	}
	return zapcore.NewCore(
		zapcore.NewConsoleEncoder(newEncoderConfig()),
		newRotateWriter(config, "error"),
		zap.ErrorLevel,
	)
}

// ParseLevel maps a config level name (case-insensitive) to a zap level, defaulting to info.
func ParseLevel(logLevel string) zapcore.Level {
	switch strings.ToUpper(logLevel) {
	case "DEBUG":
		return zapcore.DebugLevel
	case "WARN":
		return zapcore.WarnLevel
	case "ERROR":
		return zapcore.ErrorLevel
	case "DPANIC":
		return zapcore.DPanicLevel
	case "PANIC":
		return zapcore.PanicLevel
	case "FATAL":
		return zapcore.FatalLevel
	}
	return zapcore.InfoLevel
}

func createLogger(config *LogConfig, name string, logLevel string, errorCore zapcore.Core) *zap.SugaredLogger {
	if logLevel == "" {
		logLevel = config.DefaultLevel
	}
	atomicLevel := zap.NewAtomicLevelAt(ParseLevel(logLevel))
	encoder := zapcore.NewConsoleEncoder(newEncoderConfig())

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.AddSync(os.Stdout), atomicLevel),
		errorCore,
	}
	if config.Path != "" {
		cores = append(cores, zapcore.NewCore(encoder, newRotateWriter(config, name), atomicLevel))
	}
	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddStacktrace(zap.FatalLevel))
	return logger.Sugar().Named(name)
}

func InitLog(config *LogConfig) {
	if config == nil {
		config = &LogConfig{}
	}
	if config.MaxSize == 0 {
		config.MaxSize = 100
	}
	if config.MaxAge == 0 {
		config.MaxAge = 5
	}
	if config.MaxBackups == 0 {
		config.MaxBackups = 100
	}
	errorCore := createErrorCore(config)
	DBLogger = createLogger(config, "db", config.Levels["db"], errorCore)
	NetLogger = createLogger(config, "net", config.Levels["net"], errorCore)
	CronLogger = createLogger(config, "cron", config.Levels["cron"], errorCore)
	allLogger = []*zap.SugaredLogger{DBLogger, NetLogger, CronLogger}
}

// Sync flushes every logger created by InitLog.
func Sync() {
	for _, l := range allLogger {
		_ = l.Sync()
	}
}
