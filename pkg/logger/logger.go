package logger

import (
    "os"

    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"
)

// 全局日志实例，Init 前为 Nop，避免空指针
var log = zap.NewNop()

// Init 初始化全局日志（json/console 两种格式，level 可配置）
func Init(level, format string) error {
    var lv zapcore.Level
    if err := lv.UnmarshalText([]byte(level)); err != nil {
        lv = zapcore.InfoLevel
    }

    encCfg := zap.NewProductionEncoderConfig()
    encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
    var enc zapcore.Encoder
    if format == "console" {
        enc = zapcore.NewConsoleEncoder(encCfg)
    } else {
        enc = zapcore.NewJSONEncoder(encCfg)
    }

    core := zapcore.NewCore(enc, zapcore.Lock(os.Stdout), lv)
    log = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
    return nil
}

// L 返回底层 *zap.Logger（中间件等需要原始实例时使用）
func L() *zap.Logger { return log }

func Debug(msg string, fields ...zap.Field) { log.Debug(msg, fields...) }
func Info(msg string, fields ...zap.Field)  { log.Info(msg, fields...) }
func Warn(msg string, fields ...zap.Field)  { log.Warn(msg, fields...) }
func Error(msg string, fields ...zap.Field) { log.Error(msg, fields...) }
func Fatal(msg string, fields ...zap.Field) { log.Fatal(msg, fields...) }

// Sync 进程退出前刷盘
func Sync() { _ = log.Sync() }
