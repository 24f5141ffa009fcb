package util

func GetAppName() string {
	return "BizCard"
}
