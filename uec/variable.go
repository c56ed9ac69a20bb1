package uec

// VariableTable 为效用表达式提供按名称取值的变量
type VariableTable interface {
	ValueForName(name string) (float64, bool)
}

// IndexValues 是一次效用计算使用的索引值
type IndexValues struct {
	HHIndex    int64
	ZoneIndex  int32
	OriginZone int32
	DestZone   int32
	Debug      bool
}

// Values 是一个简单的VariableTable实现
type Values map[string]float64

func (v Values) ValueForName(name string) (float64, bool) {
	x, ok := v[name]
	return x, ok
}
