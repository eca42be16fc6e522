package observability

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/riskibarqy/esports-hub/internal/platform/logging"
	otellog "go.opentelemetry.io/otel/log"
	otelglobal "go.opentelemetry.io/otel/log/global"
	"go.uber.org/zap/zapcore"
)

const (
	uptraceLogInstrumentation = "esports-hub/internal/platform/logging"
	requestLogMessage         = "http request"
	maxLogValueDepth          = 3
	redactedValue             = "[redacted]"
)

// Probe traffic stays in the local log only.
var probePaths = map[string]struct{}{
	"/healthz":          {},
	"/v1/ingest/health": {},
}

// Keys whose values never leave the process.
var redactedKeys = map[string]struct{}{
	"authorization": {},
	"token":         {},
	"access_token":  {},
	"jwt":           {},
	"secret":        {},
}

func newUptraceLogMirror(serviceVersion string) logging.MirrorFunc {
	otelLogger := otelglobal.Logger(
		uptraceLogInstrumentation,
		otellog.WithInstrumentationVersion(serviceVersion),
	)

	return func(ctx context.Context, level logging.Level, msg string, args ...any) {
		if shouldSkipUptraceLog(msg, args) {
			return
		}
		if ctx == nil {
			ctx = context.Background()
		}

		severity := toOTelSeverity(level)
		if !otelLogger.Enabled(ctx, otellog.EnabledParameters{Severity: severity, EventName: msg}) {
			return
		}
		otelLogger.Emit(ctx, newOTelLogRecord(time.Now().UTC(), level, msg, args))
	}
}

func newOTelLogRecord(now time.Time, level logging.Level, msg string, args []any) otellog.Record {
	var record otellog.Record
	record.SetTimestamp(now)
	record.SetObservedTimestamp(now)
	record.SetSeverity(toOTelSeverity(level))
	record.SetSeverityText(strings.ToUpper(level.String()))
	record.SetEventName(msg)
	record.SetBody(otellog.StringValue(msg))
	if attrs := buildOTelLogAttributes(args); len(attrs) > 0 {
		record.AddAttributes(attrs...)
	}
	return record
}

func shouldSkipUptraceLog(msg string, args []any) bool {
	if msg != requestLogMessage {
		return false
	}
	path, ok := lookupStringArg(args, "path")
	if !ok {
		return false
	}
	_, skip := probePaths[path]
	return skip
}

func lookupStringArg(args []any, key string) (string, bool) {
	for i := 0; i+1 < len(args); i += 2 {
		if k, ok := args[i].(string); ok && k == key {
			v, ok := args[i+1].(string)
			return v, ok
		}
	}
	return "", false
}

// buildOTelLogAttributes pairs slog-style args. Non-string keys get a
// positional name and a dangling key becomes an empty attribute.
func buildOTelLogAttributes(args []any) []otellog.KeyValue {
	if len(args) == 0 {
		return nil
	}

	attrs := make([]otellog.KeyValue, 0, (len(args)+1)/2)
	for i := 0; i < len(args); i += 2 {
		key := fmt.Sprintf("arg_%d", i/2)
		if k, ok := args[i].(string); ok && strings.TrimSpace(k) != "" {
			key = k
		}
		switch {
		case i+1 >= len(args):
			attrs = append(attrs, otellog.Empty(key))
		case isRedactedKey(key):
			attrs = append(attrs, otellog.String(key, redactedValue))
		default:
			attrs = append(attrs, otellog.KeyValue{Key: key, Value: toOTelLogValue(args[i+1], 0)})
		}
	}
	return attrs
}

func isRedactedKey(key string) bool {
	_, ok := redactedKeys[strings.ToLower(key)]
	return ok
}

func toOTelSeverity(level zapcore.Level) otellog.Severity {
	switch {
	case level <= zapcore.DebugLevel:
		return otellog.SeverityDebug
	case level == zapcore.InfoLevel:
		return otellog.SeverityInfo
	case level == zapcore.WarnLevel:
		return otellog.SeverityWarn
	case level >= zapcore.DPanicLevel:
		return otellog.SeverityFatal
	default:
		return otellog.SeverityError
	}
}

func toOTelLogValue(value any, depth int) otellog.Value {
	if value == nil {
		return otellog.Value{}
	}
	if depth >= maxLogValueDepth {
		return otellog.StringValue(fmt.Sprint(value))
	}

	switch v := value.(type) {
	case string:
		return otellog.StringValue(v)
	case []byte:
		return otellog.BytesValue(append([]byte(nil), v...))
	case time.Time:
		return otellog.StringValue(v.UTC().Format(time.RFC3339Nano))
	case time.Duration:
		return otellog.StringValue(v.String())
	case error:
		return otellog.StringValue(v.Error())
	case fmt.Stringer:
		return otellog.StringValue(v.String())
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Bool:
		return otellog.BoolValue(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return otellog.Int64Value(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if u := rv.Uint(); u <= math.MaxInt64 {
			return otellog.Int64Value(int64(u))
		}
		return otellog.StringValue(fmt.Sprint(value))
	case reflect.Float32, reflect.Float64:
		return otellog.Float64Value(rv.Float())
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return otellog.Value{}
		}
		return toOTelLogValue(rv.Elem().Interface(), depth+1)
	case reflect.Slice, reflect.Array:
		items := make([]otellog.Value, 0, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			items = append(items, toOTelLogValue(rv.Index(i).Interface(), depth+1))
		}
		return otellog.SliceValue(items...)
	case reflect.Map:
		return mapToOTelLogValue(rv, depth)
	default:
		return otellog.StringValue(fmt.Sprint(value))
	}
}

// mapToOTelLogValue keeps string-keyed maps structured with sorted keys.
// Ingestion player stats arrive as map[string]any.
func mapToOTelLogValue(rv reflect.Value, depth int) otellog.Value {
	if rv.Type().Key().Kind() != reflect.String {
		return otellog.StringValue(fmt.Sprint(rv.Interface()))
	}
	keys := rv.MapKeys()
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })

	kvs := make([]otellog.KeyValue, 0, len(keys))
	for _, key := range keys {
		name := key.String()
		if isRedactedKey(name) {
			kvs = append(kvs, otellog.String(name, redactedValue))
			continue
		}
		kvs = append(kvs, otellog.KeyValue{Key: name, Value: toOTelLogValue(rv.MapIndex(key).Interface(), depth+1)})
	}
	return otellog.MapValue(kvs...)
}
