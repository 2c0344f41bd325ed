package course

// PartitionByCategory splits courses into per-category grids. Partitioning is
// a pure function of Category: a record belongs to at most one grid, and
// records with an unrecognized category appear in no grid.
// PRE: known contains no duplicates
// POST: the union of all grids is exactly the subset of courses whose
// category is in known; input order is preserved within each grid
func PartitionByCategory(courses []Course, known []string) map[string][]Course {
	grids := make(map[string][]Course, len(known))
	for _, cat := range known {
		grids[cat] = nil
	}
	for _, c := range courses {
		if _, ok := grids[c.Category]; ok {
			grids[c.Category] = append(grids[c.Category], c)
		}
	}
	return grids
}
