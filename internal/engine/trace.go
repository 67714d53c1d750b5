package engine

// TraceStep 一条推导记录：触发的规则、人类可读的说明以及消耗的数值输入
type TraceStep struct {
	Rule   string             `json:"rule"`
	Detail string             `json:"detail"`
	Inputs map[string]float64 `json:"inputs,omitempty"`
}

// Trace 只追加的可解释性记录，随其标注的计算结果一同返回
type Trace struct {
	Steps []TraceStep `json:"steps"`
}

func (t *Trace) Add(rule, detail string, inputs map[string]float64) {
	t.Steps = append(t.Steps, TraceStep{Rule: rule, Detail: detail, Inputs: inputs})
}

// Merge 将另一条 trace 的全部步骤追加进来
func (t *Trace) Merge(other Trace) {
	t.Steps = append(t.Steps, other.Steps...)
}
