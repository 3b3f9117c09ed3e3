package core

const ContextTraceKey = "telemetry_trace_ctx"

// ==== 型別安全 span name ====
// 專案全域建議都寫這裡，方便集中管理
type TraceSpanName string

const (
	SpanHttpRequest        TraceSpanName = "http_request"
	SpanLoggerMiddleware   TraceSpanName = "logger_middleware"
	SpanRecoveryMiddleware TraceSpanName = "recovery_middleware"
	SpanCorsMiddleware     TraceSpanName = "cors_middleware"
	SpanResponseMiddleware TraceSpanName = "response_middleware"
	SpanAPIKeyMiddleware   TraceSpanName = "api_key_middleware"
	SpanQuotaCheck         TraceSpanName = "quota_check"
	SpanFeatureExtraction  TraceSpanName = "feature_extraction"
	SpanGenderEnsemble     TraceSpanName = "gender_ensemble"
	SpanAgeCascade         TraceSpanName = "age_cascade"
	SpanPredictionStore    TraceSpanName = "prediction_store"
)

// 指標名稱常數
type MetricName string

const (
	MetricHttpRequestsTotal   MetricName = "requests_total"
	MetricHttpRequestDuration MetricName = "request_duration_seconds"
	MetricPredictionsTotal    MetricName = "predictions_total"
	MetricPredictionFailTotal MetricName = "prediction_fail_total"
	MetricQuotaRejectedTotal  MetricName = "quota_rejected_total"
	MetricFeedbackTotal       MetricName = "feedback_total"
	MetricStageDuration       MetricName = "pipeline_stage_duration_seconds"
)

// label name 常數
type MetricLabelName string

const (
	MetricLabelEndpoint MetricLabelName = "endpoint"
	MetricLabelStatus   MetricLabelName = "status"
	MetricLabelReason   MetricLabelName = "reason"
	MetricLabelStage    MetricLabelName = "stage"
	MetricLabelGender   MetricLabelName = "gender"
	MetricLabelBracket  MetricLabelName = "bracket"
)

type LoggerRequestMeta struct {
	Method     string            `trace:"request.method"`
	Path       string            `trace:"request.path"`
	FullPath   string            `trace:"request.full_path"`
	Query      string            `trace:"request.query"`
	Body       string            `trace:"request.body"`
	Scheme     string            `trace:"http.scheme"`
	Host       string            `trace:"http.host"`
	UserAgent  string            `trace:"http.user_agent"`
	ContentLen int64             `trace:"http.request_content_length"`
	Proto      string            `trace:"http.flavor"`
	ClientIP   string            `trace:"net.peer.ip"`
	Headers    map[string]string `trace:"http.request.header"`
	Params     map[string]string `trace:"http.request.param"`
}

type TraceAPIKeyMiddlewareMeta struct {
	UserID   string `trace:"auth.user_id,omitempty"`
	Plan     string `trace:"auth.plan,omitempty"`
	Where    string `trace:"auth.key_source"`
	ClientIP string `trace:"net.peer.ip"`
	Status   string `trace:"auth.status"`
}

// 供配額 Consume / 查詢使用
type TraceQuotaMeta struct {
	UserID    string `trace:"quota.user_id"`
	Plan      string `trace:"quota.plan"`
	Day       string `trace:"quota.day"`
	Limit     int    `trace:"quota.limit"`
	Remaining int    `trace:"quota.remaining,omitempty"`
	Allowed   bool   `trace:"quota.allowed"`
	Op        string `trace:"quota.op"` // "consume" / "get" / "reset"
}

// 推論管線各階段
type TracePipelineMeta struct {
	UserID       string  `trace:"pipeline.user_id"`
	FileName     string  `trace:"pipeline.file_name"`
	SampleRate   int     `trace:"pipeline.sample_rate,omitempty"`
	FeatureCount int     `trace:"pipeline.feature_count,omitempty"`
	Gender       string  `trace:"pipeline.gender,omitempty"`
	GenderConf   float64 `trace:"pipeline.gender_confidence,omitempty"`
	GenderModel  string  `trace:"pipeline.gender_model,omitempty"`
	Bracket      string  `trace:"pipeline.age_bracket,omitempty"`
	AgeConf      float64 `trace:"pipeline.age_confidence,omitempty"`
	AgeStage     int     `trace:"pipeline.age_stage,omitempty"`
	DurationMs   float64 `trace:"pipeline.duration_ms,omitempty"`
	Status       string  `trace:"pipeline.status"`
}

type TracePredictionStoreMeta struct {
	Op           string `trace:"store.op"` // "insert" / "feedback" / "get"
	PredictionID int64  `trace:"store.prediction_id,omitempty"`
	Matched      int64  `trace:"store.matched_count,omitempty"`
	Modified     int64  `trace:"store.modified_count,omitempty"`
}

type TraceResponseMeta struct {
	Path       string  `trace:"http.path"`
	Method     string  `trace:"http.method"`
	Status     int     `trace:"http.status_code"`
	Message    string  `trace:"response.message"`
	Code       int     `trace:"response.code"`
	DurationMs float64 `trace:"response.latency_ms"`
	Data       string  `trace:"response.data"`
}

type TracePanicMeta struct {
	Path       string  `trace:"http.path"`
	Method     string  `trace:"http.method"`
	ClientIP   string  `trace:"net.peer.ip"`
	UserAgent  string  `trace:"http.user_agent"`
	DurationMs float64 `trace:"response.latency_ms"`
	Status     int     `trace:"http.status_code"`
	Message    string  `trace:"error.message"`
	Stack      string  `trace:"error.stack"`
}

type TraceErrorMeta struct {
	Code       int     `trace:"error.code"`
	Message    string  `trace:"error.message"`
	Detail     string  `trace:"error.detail"`
	Status     int     `trace:"http.status_code"`
	DurationMs float64 `trace:"response.latency_ms"`
}

type TraceHttpServerMeta struct {
	ClientAddr        string `trace:"client.address"`
	HttpRequestMethod string `trace:"http.request.method"`
	HttpRoute         string `trace:"http.route"`
	UrlPath           string `trace:"url.path"`
	UrlScheme         string `trace:"url.scheme"`
	UserAgent         string `trace:"user_agent.original"`
	ServerAddress     string `trace:"server.address"`
	NetworkPeerAddr   string `trace:"network.peer.address"`
	NetworkPeerPort   int    `trace:"network.peer.port"`
	NetworkProtoVer   string `trace:"network.protocol.version"`
	SpanTraceID       string `trace:"span.trace_id"`
	HttpStatusCode    int    `trace:"http.response.status_code"`
}
