package models

// Game identifies one of the supported mobile titles.
type Game string

const (
	GameCODMobile  Game = "cod-mobile"
	GamePUBGMobile Game = "pubg-mobile"
	GameFreeFire   Game = "free-fire"
)

// Games lists every supported title in display order.
var Games = []Game{GameCODMobile, GamePUBGMobile, GameFreeFire}

func (g Game) Valid() bool {
	for _, known := range Games {
		if g == known {
			return true
		}
	}
	return false
}

type SkillLevel string

const (
	SkillAny          SkillLevel = "any"
	SkillBeginner     SkillLevel = "beginner"
	SkillIntermediate SkillLevel = "intermediate"
	SkillPro          SkillLevel = "pro"
)

func (s SkillLevel) Valid() bool {
	switch s {
	case SkillAny, SkillBeginner, SkillIntermediate, SkillPro:
		return true
	}
	return false
}

type GenderPreference string

const (
	GenderAny    GenderPreference = "any"
	GenderMale   GenderPreference = "male"
	GenderFemale GenderPreference = "female"
	GenderMixed  GenderPreference = "mixed"
)

func (g GenderPreference) Valid() bool {
	switch g {
	case GenderAny, GenderMale, GenderFemale, GenderMixed:
		return true
	}
	return false
}
