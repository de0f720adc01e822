package domain

// Area IDs are persistence keys and form a closed set. Areas only carry
// meaning for the collaborator role: owner/admin implicitly have all areas,
// student/free_user have none.
const (
	AreaMarketing   = "marketing"
	AreaPedagogical = "pedagogical"
	AreaFinancial   = "financial"
	AreaContent     = "content"
	AreaSupport     = "support"
	AreaTech        = "tech"
)

// EqualAreaSets reports whether two area lists contain the same areas,
// ignoring order and duplicates.
func EqualAreaSets(a, b []string) bool {
	as := make(map[string]struct{}, len(a))
	for _, x := range a {
		as[x] = struct{}{}
	}
	bs := make(map[string]struct{}, len(b))
	for _, x := range b {
		bs[x] = struct{}{}
	}
	if len(as) != len(bs) {
		return false
	}
	for x := range as {
		if _, ok := bs[x]; !ok {
			return false
		}
	}
	return true
}
