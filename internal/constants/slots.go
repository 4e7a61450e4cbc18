package constants

// Slot names as they appear in every storage backend.
const (
	SlotCalorieLimit  = "calorieLimit"
	SlotTotalCalories = "totalCalories"
	SlotMeals         = "meals"
	SlotWorkouts      = "workouts"
)

const (
	DefaultCalorieLimit  = 2000
	DefaultTotalCalories = 0
)

// Slots lists every slot in a stable order.
var Slots = []string{SlotCalorieLimit, SlotTotalCalories, SlotMeals, SlotWorkouts}
