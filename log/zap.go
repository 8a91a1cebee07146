// MIT License
//
// Copyright (c) 2022-2026 GoAkt Team
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package log

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	// DebugLogger writes DebugLevel and above to os.Stdout.
	DebugLogger = NewZap(DebugLevel, os.Stdout)

	// DiscardLogger discards every message it is given.
	DiscardLogger Logger = discardLogger{}

	// DefaultLogger writes InfoLevel and above to os.Stdout.
	DefaultLogger = NewZap(InfoLevel, os.Stdout)
)

// Zap implements Logger on top of go.uber.org/zap.
type Zap struct {
	logger  *zap.Logger
	sugar   *zap.SugaredLogger
	outputs []io.Writer
}

var _ Logger = (*Zap)(nil)

// NewZap builds a Zap logger writing at level to each of writers.
func NewZap(level Level, writers ...io.Writer) *Zap {
	syncers := make([]zapcore.WriteSyncer, 0, len(writers))
	for _, w := range writers {
		syncers = append(syncers, zapcore.AddSync(w))
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), zap.CombineWriteSyncers(syncers...), toZapLevel(level))
	logger := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1), zap.AddStacktrace(zapcore.ErrorLevel))
	return &Zap{logger: logger, sugar: logger.Sugar(), outputs: writers}
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.EncodeLevel = zapcore.LowercaseLevelEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder
	return cfg
}

func (z *Zap) Debug(v ...any)                 { z.sugar.Debug(v...) }
func (z *Zap) Debugf(format string, v ...any) { z.sugar.Debugf(format, v...) }
func (z *Zap) Info(v ...any)                  { z.sugar.Info(v...) }
func (z *Zap) Infof(format string, v ...any)  { z.sugar.Infof(format, v...) }
func (z *Zap) Warn(v ...any)                  { z.sugar.Warn(v...) }
func (z *Zap) Warnf(format string, v ...any)  { z.sugar.Warnf(format, v...) }
func (z *Zap) Error(v ...any)                 { z.sugar.Error(v...) }
func (z *Zap) Errorf(format string, v ...any) { z.sugar.Errorf(format, v...) }
func (z *Zap) Fatal(v ...any)                 { z.sugar.Fatal(v...) }
func (z *Zap) Fatalf(format string, v ...any) { z.sugar.Fatalf(format, v...) }
func (z *Zap) Panic(v ...any)                 { z.sugar.Panic(v...) }
func (z *Zap) Panicf(format string, v ...any) { z.sugar.Panicf(format, v...) }

// With returns a Logger that attaches the given key-value pairs to every
// subsequent entry. An odd trailing value is logged under the key "_".
func (z *Zap) With(keyValues ...any) Logger {
	if len(keyValues) == 0 {
		return z
	}
	fields := make([]zap.Field, 0, (len(keyValues)+1)/2)
	for i := 0; i < len(keyValues); i += 2 {
		if i+1 >= len(keyValues) {
			fields = append(fields, zap.Any("_", keyValues[i]))
			break
		}
		k, ok := keyValues[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, zap.Any(k, keyValues[i+1]))
	}
	newLogger := z.logger.With(fields...)
	return &Zap{logger: newLogger, sugar: newLogger.Sugar(), outputs: z.outputs}
}

// LogLevel returns the level this logger was constructed with.
func (z *Zap) LogLevel() Level {
	switch z.logger.Level() {
	case zapcore.FatalLevel:
		return FatalLevel
	case zapcore.PanicLevel:
		return PanicLevel
	case zapcore.ErrorLevel:
		return ErrorLevel
	case zapcore.WarnLevel:
		return WarningLevel
	case zapcore.DebugLevel:
		return DebugLevel
	default:
		return InfoLevel
	}
}

func (z *Zap) LogOutput() []io.Writer { return z.outputs }

func toZapLevel(level Level) zapcore.Level {
	switch level {
	case DebugLevel:
		return zapcore.DebugLevel
	case WarningLevel:
		return zapcore.WarnLevel
	case ErrorLevel:
		return zapcore.ErrorLevel
	case PanicLevel:
		return zapcore.PanicLevel
	case FatalLevel:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}
