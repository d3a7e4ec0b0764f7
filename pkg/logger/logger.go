package logger

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var Logger *zap.SugaredLogger

// InitLogger 初始化全局日志，输出到控制台和按大小滚动的日志文件
func InitLogger(name string) {
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join("logs", name+".log"),
		MaxSize:    100, // MB
		MaxBackups: 7,
		MaxAge:     30, // 天
		Compress:   true,
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(rotator), zapcore.InfoLevel),
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(os.Stdout), zapcore.DebugLevel),
	)

	Logger = zap.New(core, zap.AddCaller()).Sugar()
}
