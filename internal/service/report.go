package service

// Report 批处理结果；部分失败是常态，不中断整批
type Report struct {
    Count  int      `json:"count"`
    Errors []string `json:"errors"`
}

// RescheduleReport 整体重排结果
type RescheduleReport struct {
    Cleared   int      `json:"cleared"`
    Scheduled int      `json:"scheduled"`
    Errors    []string `json:"errors"`
}
