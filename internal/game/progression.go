package game

// ApplyVictory credits the monster's rewards and applies at most one level-up.
// Experience overshooting several thresholds still levels only once.
func ApplyVictory(p Player, m Monster, r Rules) (Player, bool) {
	p.Experience += m.Experience
	p.Gold += m.Gold
	if p.Experience < p.ExperienceToNext {
		return p, false
	}
	p.Level++
	p.ExperienceToNext = p.Level * r.LevelStep
	p.SkillPoints += r.SkillPointsPerLevel
	return p, true
}

// Trainable attributes for SpendSkillPoint.
const (
	AttrStrength     = "strength"
	AttrAgility      = "agility"
	AttrIntelligence = "intelligence"
	AttrConstitution = "constitution"
)

// constitutionHealth is the max health granted per point of constitution trained.
const constitutionHealth = 5

// SpendSkillPoint trades one skill point for +1 in attr. Constitution also
// raises max health; current health is left as is. No points or an unknown
// attribute is a no-op.
func SpendSkillPoint(p Player, attr string) (Player, bool) {
	if p.SkillPoints <= 0 {
		return p, false
	}
	switch attr {
	case AttrStrength:
		p.Strength++
	case AttrAgility:
		p.Agility++
	case AttrIntelligence:
		p.Intelligence++
	case AttrConstitution:
		p.Constitution++
		p.MaxHealth += constitutionHealth
	default:
		return p, false
	}
	p.SkillPoints--
	return p, true
}
