package catalog

func sr(sets, reps int) Target {
	return Target{Sets: sets, Reps: reps}
}

func hold(sets int, d string) Target {
	return Target{Sets: sets, Hold: d}
}

func lvl(level int, name, description, tip string, beginner, intermediate, progression Target) LevelStandard {
	return LevelStandard{
		Level:        level,
		Name:         name,
		Description:  description,
		Tip:          tip,
		Beginner:     beginner,
		Intermediate: intermediate,
		Progression:  progression,
	}
}

var defaultTypes = []ExerciseType{
	{Key: "pushup", Name: "Pushup", Icon: "💪", Color: "#e53e3e", Description: "The king of pushing: chest, shoulders and triceps"},
	{Key: "squat", Name: "Squat", Icon: "🦵", Color: "#38a169", Description: "Leg strength foundation: quads and glutes"},
	{Key: "pullup", Name: "Pullup", Icon: "🏋️", Color: "#3182ce", Description: "The king of pulling: lats and biceps"},
	{Key: "legRaise", Name: "Leg Raise", Icon: "🦿", Color: "#805ad5", Description: "Core strength: abs and hip flexors"},
	{Key: "bridge", Name: "Bridge", Icon: "🌉", Color: "#d69e2e", Description: "Spine health: lower back and glutes"},
	{Key: "handstandPushup", Name: "Handstand Pushup", Icon: "🤸", Color: "#dd6b20", Description: "Shoulder strength: deltoids and triceps"},
}

var defaultLevels = map[string][]LevelStandard{
	"pushup": {
		lvl(1, "Wall Pushup", "Stand facing a wall and push away from it", "Stand about an arm's length from the wall, keep the body straight", sr(1, 10), sr(2, 25), sr(3, 50)),
		lvl(2, "Incline Pushup", "Hands on a desk or chair", "The lower the support, the harder it gets", sr(1, 10), sr(2, 20), sr(3, 40)),
		lvl(3, "Kneeling Pushup", "Pushup with knees on the floor", "Pad the knees, keep a straight line", sr(1, 10), sr(2, 15), sr(3, 30)),
		lvl(4, "Half Pushup", "Lower only halfway down", "Use a basketball under the chest as a depth marker", sr(1, 8), sr(2, 12), sr(2, 25)),
		lvl(5, "Full Pushup", "Full range pushup", "Chest almost touches the floor, arms fully locked out", sr(1, 5), sr(2, 10), sr(2, 20)),
		lvl(6, "Close Pushup", "Hands touching", "Index fingers and thumbs form a diamond", sr(1, 5), sr(2, 10), sr(2, 20)),
		lvl(7, "Uneven Pushup", "One hand on a basketball", "The ball-side arm does less of the work", sr(1, 5), sr(2, 10), sr(2, 20)),
		lvl(8, "Half One-Arm Pushup", "One arm, halfway down", "Free hand behind the back, feet wide for balance", sr(1, 5), sr(2, 10), sr(2, 20)),
		lvl(9, "Lever Pushup", "One-arm pushup with the other hand on a ball", "The ball hand only balances", sr(1, 5), sr(2, 10), sr(2, 20)),
		lvl(10, "One-Arm Pushup", "The perfect one-arm pushup", "One of the ultimate goals", sr(1, 5), sr(2, 10), sr(1, 100)),
	},
	"squat": {
		lvl(1, "Shoulderstand Squat", "Shoulders on the floor, legs press upwards", "Press the legs towards the ceiling and bring them back", sr(1, 10), sr(2, 25), sr(3, 50)),
		lvl(2, "Jackknife Squat", "Squat with hands on a chair", "Reduce the hand support as strength builds", sr(1, 10), sr(2, 20), sr(3, 40)),
		lvl(3, "Supported Squat", "Holding a pole or door frame", "Go down until the thighs are parallel to the floor", sr(1, 10), sr(2, 15), sr(3, 30)),
		lvl(4, "Half Squat", "Down to parallel", "Keep the knees from drifting far past the toes", sr(1, 8), sr(2, 35), sr(2, 50)),
		lvl(5, "Full Squat", "Full range squat", "Hamstrings touch the calves, heels stay down", sr(1, 5), sr(2, 10), sr(2, 30)),
		lvl(6, "Close Squat", "Feet together", "Needs good ankle mobility", sr(1, 5), sr(2, 10), sr(2, 20)),
		lvl(7, "Uneven Squat", "One foot on a basketball", "The ball-side leg mostly balances", sr(1, 5), sr(2, 10), sr(2, 20)),
		lvl(8, "Half One-Leg Squat", "One leg, halfway down", "Keep the free leg straight in front", sr(1, 5), sr(2, 10), sr(2, 20)),
		lvl(9, "Assisted One-Leg Squat", "One-leg squat holding a support", "Gradually reduce the hand assistance", sr(1, 5), sr(2, 10), sr(2, 20)),
		lvl(10, "One-Leg Squat", "The perfect pistol squat", "One of the ultimate goals", sr(1, 5), sr(2, 10), sr(2, 50)),
	},
	"pullup": {
		lvl(1, "Vertical Pull", "Hold a door frame and pull the leaning body in", "Heels on the floor, the lean angle sets the difficulty", sr(1, 10), sr(2, 20), sr(3, 40)),
		lvl(2, "Horizontal Pull", "Hang horizontally under a low bar and pull up", "Keep the body straight, chest to the bar", sr(1, 10), sr(2, 20), sr(3, 30)),
		lvl(3, "Jackknife Pullup", "Pullup with feet on a chair", "The legs assist", sr(1, 10), sr(2, 15), sr(3, 20)),
		lvl(4, "Half Pullup", "Pullup starting from 90 degree elbows", "Start with the arms bent at 90 degrees", sr(1, 8), sr(2, 11), sr(2, 15)),
		lvl(5, "Full Pullup", "Full range pullup", "Chin over the bar, arms fully straight at the bottom", sr(1, 5), sr(2, 8), sr(2, 10)),
		lvl(6, "Close Pullup", "Hands close together", "About 10-15 cm between the hands", sr(1, 5), sr(2, 8), sr(2, 10)),
		lvl(7, "Uneven Pullup", "One hand holds a towel", "The towel hand contributes less", sr(1, 5), sr(2, 7), sr(2, 8)),
		lvl(8, "Half One-Arm Pullup", "One arm from 90 degrees", "The free hand may lightly hold the wrist", sr(1, 4), sr(2, 6), sr(2, 8)),
		lvl(9, "Assisted One-Arm Pullup", "One arm with the other on a low towel", "The lower the assisting hand, the harder", sr(1, 3), sr(2, 5), sr(2, 7)),
		lvl(10, "One-Arm Pullup", "The perfect one-arm pullup", "One of the ultimate goals", sr(1, 1), sr(2, 3), sr(2, 6)),
	},
	"legRaise": {
		lvl(1, "Knee Tuck", "Sit on a chair edge, pull the knees in", "Bring the knees as close to the chest as possible", sr(1, 10), sr(2, 25), sr(3, 40)),
		lvl(2, "Flat Knee Raise", "Lying flat, raise the bent legs", "Lower back stays pressed to the floor", sr(1, 10), sr(2, 20), sr(3, 35)),
		lvl(3, "Flat Frog Raise", "Lying flat, raise bent legs then straighten", "Straight legs at 45 degrees to the floor", sr(1, 10), sr(2, 15), sr(3, 30)),
		lvl(4, "Flat Half Leg Raise", "Lying flat, straight legs up to 45 degrees", "Keep the legs straight", sr(1, 8), sr(2, 12), sr(2, 20)),
		lvl(5, "Flat Straight Leg Raise", "Lying flat, straight legs up to vertical", "Toes point to the ceiling", sr(1, 5), sr(2, 10), sr(2, 20)),
		lvl(6, "Hanging Knee Raise", "Hanging from a bar, raise the knees", "Knees up to parallel", sr(1, 5), sr(2, 10), sr(2, 15)),
		lvl(7, "Hanging Frog Raise", "Hanging, raise bent legs then straighten", "Straight legs end parallel to the floor", sr(1, 5), sr(2, 10), sr(2, 15)),
		lvl(8, "Partial Straight Leg Raise", "Hanging, straight legs up to parallel", "Control the speed, no swinging", sr(1, 5), sr(2, 10), sr(2, 15)),
		lvl(9, "Hanging Straight Leg Raise", "Hanging, straight legs to horizontal", "Hold one second at the top", sr(1, 5), sr(2, 10), sr(2, 15)),
		lvl(10, "V Raise", "Hanging, straight legs up to the bar", "Toes touch the bar", sr(1, 5), sr(2, 10), sr(2, 30)),
	},
	"bridge": {
		lvl(1, "Short Bridge", "Lying flat, lift the hips", "Shoulders and feet stay on the floor", sr(1, 10), sr(2, 25), sr(3, 50)),
		lvl(2, "Straight Bridge", "Seated, lift the body on hands and feet", "Body forms a straight line", sr(1, 10), sr(2, 20), sr(3, 40)),
		lvl(3, "Angled Bridge", "Head and feet at different heights", "Raise the head end with a bed or chair", sr(1, 8), sr(2, 15), sr(3, 30)),
		lvl(4, "Head Bridge", "Bridge resting on the top of the head", "Pad the head", sr(1, 8), sr(2, 15), sr(2, 25)),
		lvl(5, "Half Bridge", "Half range bridge against a wall", "Back to the wall, walk the hands down", sr(1, 8), sr(2, 15), sr(2, 20)),
		lvl(6, "Full Bridge", "The complete bridge", "Hands and feet close, body arched", sr(1, 6), sr(2, 10), sr(2, 15)),
		lvl(7, "Wall Walking Bridge Down", "Bend back from standing into a bridge", "Beginners practise against a wall", sr(1, 3), sr(2, 6), sr(2, 10)),
		lvl(8, "Wall Walking Bridge Up", "Stand up from a bridge", "Needs leg and core strength together", sr(1, 2), sr(2, 4), sr(2, 8)),
		lvl(9, "Closing Bridge", "Down and up in one go", "Smooth and continuous", sr(1, 1), sr(2, 3), sr(2, 6)),
		lvl(10, "Stand-to-Stand Bridge", "The perfect bridge from standing", "One of the ultimate goals", sr(1, 1), sr(2, 3), sr(2, 30)),
	},
	"handstandPushup": {
		lvl(1, "Wall Headstand", "Static headstand facing the wall", "Hands about 15-25 cm from the wall", hold(1, "30s"), hold(1, "1min"), hold(1, "2min")),
		lvl(2, "Crow Stand", "Hands on the floor, knees on the elbows", "Shift the weight forward to find balance", hold(1, "10s"), hold(1, "30s"), hold(1, "1min")),
		lvl(3, "Wall Handstand", "Back to the wall handstand", "Kick up, belly facing the wall", hold(1, "30s"), hold(1, "1min"), hold(1, "2min")),
		lvl(4, "Half Handstand Pushup", "Wall handstand, lower halfway and press", "Head down to the level of the hands", sr(1, 5), sr(2, 10), sr(2, 20)),
		lvl(5, "Handstand Pushup", "Full handstand pushup against the wall", "Head lightly touches the floor", sr(1, 5), sr(2, 10), sr(2, 15)),
		lvl(6, "Close Handstand Pushup", "Hands close together", "About 10 cm between the hands", sr(1, 5), sr(2, 9), sr(2, 12)),
		lvl(7, "Uneven Handstand Pushup", "One hand on a basketball", "The ball hand mostly balances", sr(1, 5), sr(2, 8), sr(2, 10)),
		lvl(8, "Half One-Arm Handstand Pushup", "One arm, halfway down", "The free hand may lightly touch the wall", sr(1, 4), sr(2, 6), sr(2, 8)),
		lvl(9, "Lever Handstand Pushup", "One arm with the other hand on a ball", "The ball hand only balances", sr(1, 3), sr(2, 4), sr(2, 6)),
		lvl(10, "One-Arm Handstand Pushup", "The perfect one-arm handstand pushup", "One of the ultimate goals", sr(1, 1), sr(2, 2), sr(1, 5)),
	},
}
