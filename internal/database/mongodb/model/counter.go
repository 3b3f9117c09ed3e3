package model

// Counter 流水號計數器文件，_id 為序列名稱
type Counter struct {
	ID    string `json:"id" bson:"_id"`     // 序列名稱
	Value int64  `json:"value" bson:"seq"`  // 目前值
}
