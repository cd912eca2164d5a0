// Package logger 封装 zap，提供全局日志器与 client.Logger 适配
package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sui-sponsor/client-sdk-go/client"
)

// EnvProduction 生产环境：JSON 输出，Info 级别
const EnvProduction = "production"

var (
	Log *zap.Logger
)

func init() {
	// 未 Init 时使用 Nop Logger
	Log = zap.NewNop()
}

// New 按环境创建 zap.Logger
func New(env string) (*zap.Logger, error) {
	var config zap.Config

	if env == EnvProduction {
		config = zap.NewProductionConfig()
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	return config.Build()
}

// Init 初始化全局日志器
func Init(env string) error {
	l, err := New(env)
	if err != nil {
		return err
	}
	Log = l
	zap.ReplaceGlobals(Log)
	return nil
}

// Sync 刷新缓冲的日志
func Sync() {
	_ = Log.Sync()
}

func Info(msg string, fields ...zap.Field) {
	Log.Info(msg, fields...)
}

func Warn(msg string, fields ...zap.Field) {
	Log.Warn(msg, fields...)
}

func Error(msg string, fields ...zap.Field) {
	Log.Error(msg, fields...)
}

func Debug(msg string, fields ...zap.Field) {
	Log.Debug(msg, fields...)
}

// clientLogger 将 zap 适配为 client.Logger（键值对参数）
type clientLogger struct {
	s *zap.SugaredLogger
}

// ForClient 返回基于 l 的 client.Logger，l 为 nil 时使用全局日志器
func ForClient(l *zap.Logger) client.Logger {
	if l == nil {
		l = Log
	}
	return &clientLogger{s: l.Sugar()}
}

func (c *clientLogger) Debug(msg string, args ...interface{}) { c.s.Debugw(msg, args...) }
func (c *clientLogger) Info(msg string, args ...interface{})  { c.s.Infow(msg, args...) }
func (c *clientLogger) Warn(msg string, args ...interface{})  { c.s.Warnw(msg, args...) }
func (c *clientLogger) Error(msg string, args ...interface{}) { c.s.Errorw(msg, args...) }
