package path

import (
	"os"
	"path/filepath"
	"runtime"
)

// RootPath 以此原始檔位置回推專案根目錄（utils/path 向上兩層）
func RootPath() string {
	_, sourceFile, _, ok := runtime.Caller(0)
	if !ok {
		panic("cannot resolve caller location")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(sourceFile), "..", ".."))
}

// Exists 檢查路徑是否存在；I/O 錯誤原樣回傳
func Exists(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
