// Package specs builds composable predicates over teachers. Each Spec renders
// itself as a SQL condition against the teachers table aliased "t" and can
// also be evaluated in memory against a hydrated models.Teacher.
package specs

import (
	"strings"

	"github.com/noah-isme/appkademy-api/internal/models"
)

// TeacherAlias is the table alias every rendered condition refers to.
const TeacherAlias = "t"

// Spec is a single predicate over teachers. The zero value matches everything.
type Spec struct {
	where func(b *Binder) string
	match func(t *models.Teacher) bool
}

// Where renders the condition, binding its arguments on b.
func (s Spec) Where(b *Binder) string {
	if s.where == nil {
		return "TRUE"
	}
	return s.where(b)
}

// Matches evaluates the predicate against a teacher held in memory.
func (s Spec) Matches(t *models.Teacher) bool {
	if s.match == nil {
		return true
	}
	return s.match(t)
}

// IsIdentity reports whether the spec places no constraint at all.
func (s Spec) IsIdentity() bool {
	return s.where == nil && s.match == nil
}

// AllOf conjoins the given specs. With no constraining members it is the identity.
func AllOf(specs ...Spec) Spec {
	members := make([]Spec, 0, len(specs))
	for _, s := range specs {
		if !s.IsIdentity() {
			members = append(members, s)
		}
	}
	switch len(members) {
	case 0:
		return Spec{}
	case 1:
		return members[0]
	}
	return Spec{
		where: func(b *Binder) string {
			parts := make([]string, len(members))
			for i, m := range members {
				parts[i] = "(" + m.Where(b) + ")"
			}
			return strings.Join(parts, " AND ")
		},
		match: func(t *models.Teacher) bool {
			for _, m := range members {
				if !m.Matches(t) {
					return false
				}
			}
			return true
		},
	}
}

// TeacherIDsIn matches teachers whose id is in ids. An empty set matches nothing.
func TeacherIDsIn(ids []string) Spec {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return Spec{
		where: func(b *Binder) string {
			if len(ids) == 0 {
				return "FALSE"
			}
			placeholders := make([]string, len(ids))
			for i, id := range ids {
				placeholders[i] = b.Bind(id)
			}
			return TeacherAlias + ".id IN (" + strings.Join(placeholders, ",") + ")"
		},
		match: func(t *models.Teacher) bool {
			_, ok := set[t.ID]
			return ok
		},
	}
}

// CountryEquals matches on address country.
func CountryEquals(country string) Spec {
	return columnEquals("address_country", country, func(t *models.Teacher) string { return t.Address.Country })
}

// ProvinceEquals matches on address province.
func ProvinceEquals(province string) Spec {
	return columnEquals("address_province", province, func(t *models.Teacher) string { return t.Address.Province })
}

// CityEquals matches on address city.
func CityEquals(city string) Spec {
	return columnEquals("address_city", city, func(t *models.Teacher) string { return t.Address.City })
}

// ProficiencySubject matches teachers holding any proficiency in the named subject.
func ProficiencySubject(subject string) Spec {
	return Spec{
		where: func(b *Binder) string {
			return `EXISTS (SELECT 1 FROM teacher_proficiencies tp
	JOIN teaching_proficiencies p ON p.id = tp.proficiency_id
	JOIN subjects s ON s.id = p.subject_id
	WHERE tp.teacher_id = ` + TeacherAlias + `.id AND s.name = ` + b.Bind(subject) + `)`
		},
		match: func(t *models.Teacher) bool {
			for _, p := range t.Proficiencies {
				if p.Subject.Name == subject {
					return true
				}
			}
			return false
		},
	}
}

// ProficiencyMasteryLevel matches teachers holding any proficiency at the given level.
// Combined with ProficiencySubject the two conditions are independent: they may be
// satisfied by different proficiencies of the same teacher.
func ProficiencyMasteryLevel(level models.MasteryLevel) Spec {
	return Spec{
		where: func(b *Binder) string {
			return `EXISTS (SELECT 1 FROM teacher_proficiencies tp
	JOIN teaching_proficiencies p ON p.id = tp.proficiency_id
	WHERE tp.teacher_id = ` + TeacherAlias + `.id AND p.mastery_level = ` + b.Bind(string(level)) + `)`
		},
		match: func(t *models.Teacher) bool {
			for _, p := range t.Proficiencies {
				if p.MasteryLevel == level {
					return true
				}
			}
			return false
		},
	}
}

// ForTeacherFilter composes the predicate for a sparse filter. Absent fields drop out.
func ForTeacherFilter(filter models.TeacherFilter) Spec {
	var list []Spec
	if len(filter.TeacherIDs) > 0 {
		list = append(list, TeacherIDsIn(filter.TeacherIDs))
	}
	if filter.Country != nil {
		list = append(list, CountryEquals(*filter.Country))
	}
	if filter.Province != nil {
		list = append(list, ProvinceEquals(*filter.Province))
	}
	if filter.City != nil {
		list = append(list, CityEquals(*filter.City))
	}
	if prof := filter.TeachingProficiency; prof != nil {
		if prof.Subject != nil && prof.Subject.Name != "" {
			list = append(list, ProficiencySubject(prof.Subject.Name))
		}
		if prof.MasteryLevel != nil {
			list = append(list, ProficiencyMasteryLevel(*prof.MasteryLevel))
		}
	}
	return AllOf(list...)
}

func columnEquals(column, value string, get func(t *models.Teacher) string) Spec {
	return Spec{
		where: func(b *Binder) string {
			return TeacherAlias + "." + column + " = " + b.Bind(value)
		},
		match: func(t *models.Teacher) bool {
			return get(t) == value
		},
	}
}
