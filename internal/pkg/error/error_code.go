package error

const (
	// 0 ~ 999: 成功類別
	SUCCESS = 0 // 200 OK

	// 40000 ~ 49999: 用戶請求錯誤 (400 系列)
	BAD_REQUEST_BODY         = 40000 // 400 - 無效的請求體
	BAD_REQUEST_PARAMS       = 40001 // 400 - 無效的請求參數
	BAD_REQUEST_HEADERS      = 40002 // 400 - 無效的請求標頭
	UNSUPPORTED_AUDIO_FORMAT = 40003 // 400 - 不支援的音檔格式
	MISSING_AUDIO_FILE       = 40004 // 400 - 缺少上傳音檔

	// 40100 ~ 40399: 驗證與權限錯誤 (401 403 系列)
	UNAUTHORIZED         = 40100 // 401 - 未授權
	MISSING_API_KEY      = 40101 // 401 - 缺少 API Key
	UNAUTHORIZED_API_KEY = 40300 // 403 - API Key 無權限
	FORBIDDEN            = 40301 // 403 - 禁止訪問

	// 40400 ~ 40499: 資源錯誤 (404 系列)
	NOT_FOUND            = 40400 // 404 - 資源未找到
	PREDICTION_NOT_FOUND = 40401 // 404 - 預測紀錄不存在

	// 42200 ~ 42299: 無法處理的內容 (422 系列)
	EXTRACTION_FAILED = 42200 // 422 - 特徵抽取失敗

	// 42900 ~ 42999: 流量限制錯誤 (429 系列)
	QUOTA_EXCEEDED = 42900 // 429 - 每日配額已用完

	// 50000 ~ 50199: 伺服器內部錯誤 (500 系列)
	INTERNAL_ERROR        = 50000 // 500 - 內部錯誤
	DATABASE_ERROR        = 50001 // 500 - 資料庫錯誤
	SERVICE_UNAVAILABLE   = 50002 // 503 - 服務暫停 (維護模式)
	CLASSIFICATION_FAILED = 50003 // 500 - 模型推論失敗
)
