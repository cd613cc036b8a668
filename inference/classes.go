package inference

// NumClasses 模型可识别的皮肤病类别数量
const NumClasses = 7

// Condition 某一类别的临床元数据
type Condition struct {
	Label             string `json:"label"`
	Description       string `json:"description"`
	RiskLevel         string `json:"risk_level"`
	RecommendedAction string `json:"recommended_action"`
}

// 下标即模型输出的类别编号，四张表必须保持同样长度与顺序
var (
	classLabels = [NumClasses]string{
		"Actinic Keratoses",
		"Basal Cell Carcinoma",
		"Benign Keratosis",
		"Dermatofibroma",
		"Melanoma",
		"Melanocytic Nevi",
		"Vascular Lesions",
	}

	classDescriptions = [NumClasses]string{
		"Rough, scaly patches caused by years of sun exposure. Considered precancerous.",
		"A common form of skin cancer that grows slowly and rarely spreads.",
		"Non-cancerous skin growths such as seborrheic keratoses and solar lentigines.",
		"A common benign fibrous nodule, usually found on the lower legs.",
		"The most serious type of skin cancer, developing in pigment-producing cells.",
		"Common moles formed by clusters of pigment cells. Usually benign.",
		"Abnormalities of blood vessels such as cherry angiomas and angiokeratomas.",
	}

	classRiskLevels = [NumClasses]string{
		"Medium",
		"High",
		"Low",
		"Low",
		"High",
		"Low",
		"Low",
	}

	classActions = [NumClasses]string{
		"Schedule a dermatologist visit for evaluation and possible treatment.",
		"Consult a dermatologist promptly for diagnosis and treatment options.",
		"Monitor for changes; consult a dermatologist if it grows or bleeds.",
		"No urgent action needed; have it checked if it changes or becomes painful.",
		"Seek immediate consultation with a dermatologist or oncologist.",
		"Monitor using the ABCDE rule and have regular skin checks.",
		"Usually harmless; consult a dermatologist if it bleeds or changes.",
	}
)

// ValidClass 判断类别编号是否合法
func ValidClass(i int) bool {
	return i >= 0 && i < NumClasses
}

// Label 返回类别名称，非法编号返回 "Unknown"
func Label(i int) string {
	if !ValidClass(i) {
		return "Unknown"
	}
	return classLabels[i]
}

// Labels 按类别编号顺序返回全部类别名称
func Labels() []string {
	out := make([]string, NumClasses)
	copy(out, classLabels[:])
	return out
}

// Lookup 查询类别对应的临床元数据
func Lookup(i int) (Condition, bool) {
	if !ValidClass(i) {
		return Condition{}, false
	}
	return Condition{
		Label:             classLabels[i],
		Description:       classDescriptions[i],
		RiskLevel:         classRiskLevels[i],
		RecommendedAction: classActions[i],
	}, true
}
