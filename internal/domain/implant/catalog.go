package implant

// StageInfo describes one step of the implant treatment plan. Name is the
// API key; Display is the label shown to clinic staff.
type StageInfo struct {
	Name    string `json:"name"`
	Display string `json:"display"`
}

// Catalog is the ordered implant treatment plan. Stages are completed in
// this order, one record per (patient, doctor, stage).
var Catalog = []StageInfo{
	{Name: "implant-placement", Display: "مرحلة زراعة الاسنان"},
	{Name: "suture-removal", Display: "مرحلة رفع خيط العملية"},
	{Name: "first-follow-up", Display: "متابعة حالة المريض"},
	{Name: "second-follow-up", Display: "المتابعة الثانية لحالة المريض"},
	{Name: "dental-impression", Display: "التقاط طبعة الاسنان"},
	{Name: "first-trial-fitting", Display: "التركيب التجريبي الاول"},
	{Name: "second-trial-fitting", Display: "التركيب التجريبي الثاني"},
	{Name: "final-fitting", Display: "التركيب النهائي الاخير"},
}

// StageIndex returns the catalog position of a stage name, or -1.
func StageIndex(name string) int {
	for i, s := range Catalog {
		if s.Name == name {
			return i
		}
	}
	return -1
}

// DaysToNext is the gap between a stage and its successor: one week after
// the placement itself, a month between every later pair.
func DaysToNext(index int) int {
	if index == 0 {
		return 7
	}
	return 30
}

// IsLast reports whether the stage at index has no successor.
func IsLast(index int) bool {
	return index == len(Catalog)-1
}
