package useragent

import (
	"regexp"
	"strings"
)

// DeviceType 设备类型
type DeviceType string

const (
	DeviceMobile  DeviceType = "mobile"
	DeviceTablet  DeviceType = "tablet"
	DeviceDesktop DeviceType = "desktop"
	DeviceUnknown DeviceType = "unknown"
)

// Info 解析结果，Browser/OS 识别不出时为空字符串
type Info struct {
	Device  DeviceType
	Browser string
	OS      string
}

type rule struct {
	match func(ua string) bool
	value string
}

func pattern(expr string) func(string) bool {
	re := regexp.MustCompile(`(?i)` + expr)
	return re.MatchString
}

var (
	isAndroid = pattern(`android`)
	isMobile  = pattern(`mobile`)
)

// 以下规则表按顺序匹配，先命中先返回，顺序不可调整：
// 平板先于手机（不带 Mobile 的 Android 视为平板），
// Edge/Samsung/Opera 先于 Chrome，Chrome 先于 Safari，iOS 先于 macOS，Android 先于 Linux。
var deviceRules = []rule{
	{pattern(`ipad|tablet|kindle|silk|playbook`), string(DeviceTablet)},
	{func(ua string) bool { return isAndroid(ua) && !isMobile(ua) }, string(DeviceTablet)},
	{pattern(`mobile|iphone|ipod|android|blackberry|iemobile|opera mini|windows phone`), string(DeviceMobile)},
}

var browserRules = []rule{
	{pattern(`edg(e|a|ios)?/`), "Edge"},
	{pattern(`samsungbrowser`), "Samsung Internet"},
	{pattern(`opr/|opera`), "Opera"},
	{pattern(`firefox|fxios`), "Firefox"},
	{pattern(`chrome|crios|chromium`), "Chrome"},
	{pattern(`safari`), "Safari"},
	{pattern(`msie|trident`), "Internet Explorer"},
}

var osRules = []rule{
	{pattern(`windows`), "Windows"},
	{pattern(`iphone|ipad|ipod|cpu os|ios`), "iOS"},
	{pattern(`mac os x|macintosh`), "macOS"},
	{pattern(`android`), "Android"},
	{pattern(`cros`), "Chrome OS"},
	{pattern(`linux`), "Linux"},
}

func first(rules []rule, ua string) string {
	for _, r := range rules {
		if r.match(ua) {
			return r.value
		}
	}
	return ""
}

// ClassifyDevice 只判断设备类型
func ClassifyDevice(ua string) DeviceType {
	if strings.TrimSpace(ua) == "" {
		return DeviceUnknown
	}
	if v := first(deviceRules, ua); v != "" {
		return DeviceType(v)
	}
	return DeviceDesktop
}

// Parse 解析 User-Agent
func Parse(ua string) Info {
	if strings.TrimSpace(ua) == "" {
		return Info{Device: DeviceUnknown}
	}
	return Info{
		Device:  ClassifyDevice(ua),
		Browser: first(browserRules, ua),
		OS:      first(osRules, ua),
	}
}
