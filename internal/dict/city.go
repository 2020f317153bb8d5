package dict

// canonicalCities 标准城市名。城市归一化按此表做前缀匹配，
// 顺序即匹配优先级。
var canonicalCities = []string{
	"北京", "上海", "广州", "深圳", "杭州", "成都", "南京", "武汉", "苏州",
	"厦门", "西安", "长沙", "重庆", "天津", "青岛", "郑州", "合肥", "福州",
	"济南", "大连", "宁波", "无锡", "珠海", "东莞", "佛山", "昆明", "贵阳",
	"南昌", "哈尔滨", "沈阳", "长春", "石家庄", "太原", "兰州", "南宁",
	"海口", "乌鲁木齐", "呼和浩特", "银川", "西宁", "拉萨",
	"香港", "澳门", "台北", "新加坡", "东京",
}

// cityDistricts 城市 → 常见城区/地标子串，用于从片区名反推城市。
var cityDistricts = []CityDistricts{
	{City: "北京", Districts: []string{"海淀", "朝阳", "中关村", "西二旗", "望京", "国贸", "亦庄", "西直门"}},
	{City: "上海", Districts: []string{"浦东", "徐汇", "静安", "张江", "杨浦", "闵行", "虹桥", "陆家嘴"}},
	{City: "深圳", Districts: []string{"南山", "福田", "宝安", "龙岗", "龙华", "科技园", "前海"}},
	{City: "广州", Districts: []string{"天河", "越秀", "海珠", "番禺", "琶洲"}},
	{City: "杭州", Districts: []string{"西湖区", "滨江", "余杭", "萧山", "未来科技城", "云栖"}},
	{City: "成都", Districts: []string{"天府", "武侯"}},
	{City: "南京", Districts: []string{"江宁", "雨花台", "建邺"}},
	{City: "武汉", Districts: []string{"光谷", "洪山"}},
	{City: "苏州", Districts: []string{"园区", "金鸡湖"}},
}

// provinceCapitals 省份 → 省会，只提到省份时的回退。顺序前缀匹配。
var provinceCapitals = []ProvinceCapital{
	{Province: "广东", Capital: "广州"},
	{Province: "浙江", Capital: "杭州"},
	{Province: "江苏", Capital: "南京"},
	{Province: "四川", Capital: "成都"},
	{Province: "湖北", Capital: "武汉"},
	{Province: "湖南", Capital: "长沙"},
	{Province: "陕西", Capital: "西安"},
	{Province: "山东", Capital: "济南"},
	{Province: "福建", Capital: "福州"},
	{Province: "安徽", Capital: "合肥"},
	{Province: "河南", Capital: "郑州"},
	{Province: "河北", Capital: "石家庄"},
	{Province: "辽宁", Capital: "沈阳"},
	{Province: "吉林", Capital: "长春"},
	{Province: "黑龙江", Capital: "哈尔滨"},
	{Province: "山西", Capital: "太原"},
	{Province: "江西", Capital: "南昌"},
	{Province: "云南", Capital: "昆明"},
	{Province: "贵州", Capital: "贵阳"},
	{Province: "广西", Capital: "南宁"},
	{Province: "海南", Capital: "海口"},
	{Province: "甘肃", Capital: "兰州"},
	{Province: "青海", Capital: "西宁"},
	{Province: "宁夏", Capital: "银川"},
	{Province: "新疆", Capital: "乌鲁木齐"},
	{Province: "西藏", Capital: "拉萨"},
	{Province: "内蒙古", Capital: "呼和浩特"},
	{Province: "台湾", Capital: "台北"},
}

// multiCityShorthand 多城连写的展开表。
var multiCityShorthand = map[string][]string{
	"北上广深": {"北京", "上海", "广州", "深圳"},
	"北上广":  {"北京", "上海", "广州"},
	"北上深":  {"北京", "上海", "深圳"},
	"北上":   {"北京", "上海"},
	"广深":   {"广州", "深圳"},
	"上广深":  {"上海", "广州", "深圳"},
	"深广":   {"深圳", "广州"},
	"江浙沪":  {"上海", "杭州", "南京"},
}

// invalidLocations 无效占位值，整条丢弃，不计入任何城市。
var invalidLocations = map[string]struct{}{
	"未知":      {},
	"全国":      {},
	"不限":      {},
	"无":       {},
	"待定":      {},
	"国内":      {},
	"多地":      {},
	"其他":      {},
	"unknown": {},
	"n/a":     {},
	"tbd":     {},
}

// remoteMarkers 远程办公标记，子串匹配，命中即短路为「远程」。
var remoteMarkers = []string{"远程", "remote", "在家办公", "wfh"}

// overseasCities 常见海外城市别名 → 标准名，小写查询。
var overseasCities = map[string]string{
	"singapore":     "新加坡",
	"tokyo":         "东京",
	"hong kong":     "香港",
	"hongkong":      "香港",
	"san francisco": "旧金山",
	"seattle":       "西雅图",
	"new york":      "纽约",
	"london":        "伦敦",
	"dubai":         "迪拜",
	"sydney":        "悉尼",
	"vancouver":     "温哥华",
}
