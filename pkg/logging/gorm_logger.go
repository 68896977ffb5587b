package logging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SlowQueryThreshold 超过该耗时的 SQL 以 warn 级别输出
const SlowQueryThreshold = 200 * time.Millisecond

type gormZapLogger struct {
	logger *zap.Logger
	level  logger.LogLevel
	slow   time.Duration
}

func ToGormLogLevel(zapLevel zapcore.Level) logger.LogLevel {
	switch zapLevel {
	case zapcore.DebugLevel:
		return logger.Info
	case zapcore.InfoLevel, zapcore.WarnLevel:
		return logger.Warn
	case zapcore.ErrorLevel, zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return logger.Error
	default:
		return logger.Silent
	}
}

// NewGormLogger slow <= 0 时使用 SlowQueryThreshold
func NewGormLogger(l *zap.Logger, level logger.LogLevel, slow time.Duration) logger.Interface {
	if slow <= 0 {
		slow = SlowQueryThreshold
	}
	return &gormZapLogger{
		logger: l.Named("gorm").WithOptions(zap.AddCallerSkip(3)),
		level:  level,
		slow:   slow,
	}
}

func (g *gormZapLogger) LogMode(level logger.LogLevel) logger.Interface {
	clone := *g
	clone.level = level
	return &clone
}

func (g *gormZapLogger) Info(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= logger.Info {
		g.logger.Info(fmt.Sprintf(msg, data...))
	}
}

func (g *gormZapLogger) Warn(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= logger.Warn {
		g.logger.Warn(fmt.Sprintf(msg, data...))
	}
}

func (g *gormZapLogger) Error(ctx context.Context, msg string, data ...interface{}) {
	if g.level >= logger.Error {
		g.logger.Error(fmt.Sprintf(msg, data...))
	}
}

// Trace 记录 SQL
//
// 查不到记录是正常分支；唯一键冲突由调用方重试（短码碰撞）或转成 409，只记 debug。
func (g *gormZapLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)
	fields := func() []zap.Field {
		sql, rows := fc()
		return []zap.Field{
			zap.Duration("duration", elapsed),
			zap.String("sql", sql),
			zap.Int64("rows", rows),
		}
	}

	switch {
	case err != nil && (errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, gorm.ErrDuplicatedKey)):
		if g.level >= logger.Info {
			g.logger.Debug("GORM SQL expected error", append(fields(), zap.Error(err))...)
		}
	case err != nil && g.level >= logger.Error:
		g.logger.Error("GORM SQL failed", append(fields(), zap.Error(err))...)
	case elapsed > g.slow && g.level >= logger.Warn:
		g.logger.Warn("GORM slow SQL", fields()...)
	case g.level >= logger.Info:
		g.logger.Debug("GORM SQL", fields()...)
	}
}
