package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/tally/internal/constants"
	"github.com/julianstephens/tally/internal/ids"
	"github.com/julianstephens/tally/internal/models"
	"github.com/julianstephens/tally/internal/storage"
	"github.com/julianstephens/tally/internal/validation"
)

type testContext struct {
	*Context
	out     *bytes.Buffer
	asked   []string
	answers []bool
}

func newTestContext(t *testing.T, store storage.Provider) *testContext {
	t.Helper()
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	tc := &testContext{out: &bytes.Buffer{}}
	tc.Context = &Context{
		Store: store,
		IDs:   ids.NewSequence("id"),
		Out:   tc.out,
		Err:   &bytes.Buffer{},
		Confirm: func(title, _ string) (bool, error) {
			tc.asked = append(tc.asked, title)
			if len(tc.answers) == 0 {
				return false, nil
			}
			ans := tc.answers[0]
			tc.answers = tc.answers[1:]
			return ans, nil
		},
	}
	return tc
}

func setupMemory(t *testing.T) *testContext {
	return newTestContext(t, storage.NewMemoryStore())
}

func setupFile(t *testing.T, name string) *testContext {
	return newTestContext(t, storage.NewProvider(filepath.Join(t.TempDir(), name)))
}

func (tc *testContext) state(t *testing.T) models.State {
	t.Helper()
	state, err := tc.Storage().Snapshot()
	if err != nil {
		t.Fatalf("Snapshot failed: %v", err)
	}
	return state
}

func TestMealAddAndList(t *testing.T) {
	tc := setupMemory(t)

	if err := (&MealAddCmd{Name: "  Porridge ", Calories: "350"}).Run(tc.Context); err != nil {
		t.Fatalf("meal add failed: %v", err)
	}
	if err := (&WorkoutAddCmd{Name: "Row", Calories: "200"}).Run(tc.Context); err != nil {
		t.Fatalf("workout add failed: %v", err)
	}

	out := tc.out.String()
	if !strings.Contains(out, `Added meal "Porridge" (350 cal), ID: id-1`) {
		t.Errorf("missing add confirmation in:\n%s", out)
	}
	if !strings.Contains(out, "Remaining:    1850") {
		t.Errorf("missing summary in:\n%s", out)
	}

	state := tc.state(t)
	if state.TotalCalories != 150 || len(state.Meals) != 1 || len(state.Workouts) != 1 {
		t.Errorf("state = %+v", state)
	}

	tc.out.Reset()
	if err := (&MealListCmd{Filter: "PORR"}).Run(tc.Context); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(tc.out.String(), "Porridge") {
		t.Errorf("filtered list missing meal:\n%s", tc.out.String())
	}

	tc.out.Reset()
	if err := (&MealListCmd{Filter: "pizza"}).Run(tc.Context); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(tc.out.String(), `No meals match "pizza"`) {
		t.Errorf("unexpected output:\n%s", tc.out.String())
	}
}

func TestAddRejectsBadInput(t *testing.T) {
	tc := setupMemory(t)
	tests := []struct{ name, calories string }{
		{"", "100"},
		{"Soup", ""},
		{"Soup", "lots"},
		{"Soup", "12.5"},
	}
	for _, tt := range tests {
		err := (&MealAddCmd{Name: tt.name, Calories: tt.calories}).Run(tc.Context)
		var verr *validation.ValidationError
		if !errors.As(err, &verr) {
			t.Errorf("add %q %q: error = %v, want *ValidationError", tt.name, tt.calories, err)
		}
	}
	if state := tc.state(t); len(state.Meals) != 0 {
		t.Errorf("invalid input was stored: %+v", state.Meals)
	}
}

func TestRemoveAsksForConfirmation(t *testing.T) {
	tc := setupMemory(t)
	if err := (&WorkoutAddCmd{Name: "Swim", Calories: "400"}).Run(tc.Context); err != nil {
		t.Fatal(err)
	}

	tc.answers = []bool{false}
	if err := (&WorkoutRmCmd{ID: "id-1"}).Run(tc.Context); err != nil {
		t.Fatal(err)
	}
	if len(tc.asked) != 1 {
		t.Fatalf("expected one confirmation prompt, got %v", tc.asked)
	}
	if state := tc.state(t); len(state.Workouts) != 1 {
		t.Fatal("declined removal still removed the workout")
	}

	tc.answers = []bool{true}
	if err := (&WorkoutRmCmd{ID: "id-1"}).Run(tc.Context); err != nil {
		t.Fatal(err)
	}
	state := tc.state(t)
	if len(state.Workouts) != 0 || state.TotalCalories != 0 {
		t.Errorf("state after removal = %+v", state)
	}
}

func TestRemoveWithYesSkipsPrompt(t *testing.T) {
	tc := setupMemory(t)
	if err := (&MealAddCmd{Name: "Cake", Calories: "500"}).Run(tc.Context); err != nil {
		t.Fatal(err)
	}
	if err := (&MealRmCmd{ID: "id-1", Yes: true}).Run(tc.Context); err != nil {
		t.Fatal(err)
	}
	if len(tc.asked) != 0 {
		t.Errorf("--yes still prompted: %v", tc.asked)
	}
	if err := (&MealRmCmd{ID: "id-1", Yes: true}).Run(tc.Context); err == nil {
		t.Error("expected error removing an unknown id")
	}
}

func TestLimitCommands(t *testing.T) {
	tc := setupMemory(t)

	if err := (&LimitSetCmd{Calories: "1800"}).Run(tc.Context); err != nil {
		t.Fatal(err)
	}
	if got := tc.state(t).CalorieLimit; got != 1800 {
		t.Errorf("limit = %d, want 1800", got)
	}

	for _, bad := range []string{"0", "-5", "abc", ""} {
		var verr *validation.ValidationError
		if err := (&LimitSetCmd{Calories: bad}).Run(tc.Context); !errors.As(err, &verr) {
			t.Errorf("limit set %q: error = %v", bad, err)
		}
	}

	if err := (&LimitResetCmd{}).Run(tc.Context); err != nil {
		t.Fatal(err)
	}
	if got := tc.state(t).CalorieLimit; got != constants.DefaultCalorieLimit {
		t.Errorf("limit after reset = %d", got)
	}
}

func TestResetDay(t *testing.T) {
	tc := setupFile(t, "tally.db")
	if err := (&LimitSetCmd{Calories: "2200"}).Run(tc.Context); err != nil {
		t.Fatal(err)
	}
	if err := (&MealAddCmd{Name: "Burrito", Calories: "900"}).Run(tc.Context); err != nil {
		t.Fatal(err)
	}

	if err := (&ResetCmd{}).Run(tc.Context); err != nil {
		t.Fatal(err)
	}
	if state := tc.state(t); len(state.Meals) != 1 {
		t.Fatal("reset ran without confirmation")
	}

	tc.answers = []bool{true}
	if err := (&ResetCmd{}).Run(tc.Context); err != nil {
		t.Fatal(err)
	}
	want := models.State{CalorieLimit: 2200, Meals: []models.Item{}, Workouts: []models.Item{}}
	if diff := cmp.Diff(want, tc.state(t)); diff != "" {
		t.Errorf("state after reset mismatch (-want +got):\n%s", diff)
	}

	backups, err := os.ReadDir(filepath.Join(tc.ConfigDir(), constants.BackupDirName))
	if err != nil || len(backups) == 0 {
		t.Errorf("expected an automatic backup before reset, got %v (%v)", backups, err)
	}
}

func TestStatusAndReconcile(t *testing.T) {
	tc := setupMemory(t)
	s := tc.Storage()
	if err := s.SetItems(models.KindMeal, []models.Item{{ID: "m1", Name: "Salad", Calories: 250}}); err != nil {
		t.Fatal(err)
	}

	if err := (&StatusCmd{}).Run(tc.Context); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(tc.out.String(), "tally reconcile") {
		t.Errorf("status did not report drift:\n%s", tc.out.String())
	}

	tc.out.Reset()
	if err := (&ReconcileCmd{}).Run(tc.Context); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(tc.out.String(), "+250") {
		t.Errorf("reconcile output:\n%s", tc.out.String())
	}
	if got := tc.state(t).TotalCalories; got != 250 {
		t.Errorf("total after reconcile = %d", got)
	}
}

func TestExport(t *testing.T) {
	tc := setupMemory(t)
	if err := (&MealAddCmd{Name: "Bagel", Calories: "280"}).Run(tc.Context); err != nil {
		t.Fatal(err)
	}

	wantMeals := []models.Item{{ID: "id-1", Name: "Bagel", Calories: 280}}

	tc.out.Reset()
	if err := (&ExportCmd{Format: "json"}).Run(tc.Context); err != nil {
		t.Fatal(err)
	}
	var fromJSON Export
	if err := json.Unmarshal(tc.out.Bytes(), &fromJSON); err != nil {
		t.Fatalf("export is not JSON: %v", err)
	}
	if diff := cmp.Diff(wantMeals, fromJSON.Meals); diff != "" {
		t.Errorf("json meals mismatch (-want +got):\n%s", diff)
	}
	if fromJSON.Summary.Remaining != 1720 {
		t.Errorf("json summary = %+v", fromJSON.Summary)
	}

	out := filepath.Join(t.TempDir(), "day.yaml")
	if err := (&ExportCmd{Format: "yaml", Output: out}).Run(tc.Context); err != nil {
		t.Fatal(err)
	}
	raw, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	var fromYAML Export
	if err := yaml.Unmarshal(raw, &fromYAML); err != nil {
		t.Fatalf("export is not YAML: %v", err)
	}
	if diff := cmp.Diff(fromJSON.Summary, fromYAML.Summary); diff != "" {
		t.Errorf("yaml summary mismatch (-json +yaml):\n%s", diff)
	}
	if diff := cmp.Diff(wantMeals, fromYAML.Meals); diff != "" {
		t.Errorf("yaml meals mismatch (-want +got):\n%s", diff)
	}
}

type failingCloser struct {
	bytes.Buffer
	err error
}

func (f *failingCloser) Close() error { return f.err }

func TestExportReportsCloseError(t *testing.T) {
	tc := setupMemory(t)
	boom := errors.New("no space left on device")
	orig := createExportFile
	createExportFile = func(string) (io.WriteCloser, error) {
		return &failingCloser{err: boom}, nil
	}
	t.Cleanup(func() { createExportFile = orig })

	err := (&ExportCmd{Format: "json", Output: "day.json"}).Run(tc.Context)
	if !errors.Is(err, boom) {
		t.Fatalf("Export error = %v, want %v", err, boom)
	}
	if strings.Contains(tc.out.String(), "Exported") {
		t.Errorf("success reported after failed close: %q", tc.out.String())
	}
}

func TestDoctor(t *testing.T) {
	tc := setupFile(t, "tally.json")
	if err := (&DoctorCmd{}).Run(tc.Context); err != nil {
		t.Fatalf("doctor on a fresh store failed: %v\n%s", err, tc.out.String())
	}
	if !strings.Contains(tc.out.String(), "⚠ Backups present: WARNING") {
		t.Errorf("expected backup warning:\n%s", tc.out.String())
	}

	if err := tc.Store.Set(constants.SlotMeals, "[{broken"); err != nil {
		t.Fatal(err)
	}
	if err := tc.Store.Set(constants.SlotTotalCalories, "75"); err != nil {
		t.Fatal(err)
	}
	tc.out.Reset()
	if err := (&DoctorCmd{}).Run(tc.Context); err == nil {
		t.Errorf("doctor should fail on corrupt data:\n%s", tc.out.String())
	}
	out := tc.out.String()
	if !strings.Contains(out, "❌ Slot encoding: FAIL") || !strings.Contains(out, "❌ Data validation: FAIL") {
		t.Errorf("unexpected doctor output:\n%s", out)
	}
}

func TestDoctorSQLite(t *testing.T) {
	tc := setupFile(t, "tally.db")
	if err := (&DoctorCmd{}).Run(tc.Context); err != nil {
		t.Fatalf("doctor failed: %v\n%s", err, tc.out.String())
	}
	if !strings.Contains(tc.out.String(), "✓ Schema version: OK") {
		t.Errorf("unexpected output:\n%s", tc.out.String())
	}
}

func TestInitForce(t *testing.T) {
	tc := setupFile(t, "tally.db")
	if err := (&MealAddCmd{Name: "Eggs", Calories: "150"}).Run(tc.Context); err != nil {
		t.Fatal(err)
	}

	if err := (&InitCmd{}).Run(tc.Context); err != nil {
		t.Fatalf("second init failed (should be idempotent): %v", err)
	}
	if len(tc.state(t).Meals) != 1 {
		t.Fatal("plain init must keep existing data")
	}

	if err := (&InitCmd{Force: true}).Run(tc.Context); err != nil {
		t.Fatalf("init --force failed: %v", err)
	}
	if len(tc.state(t).Meals) != 0 {
		t.Error("init --force kept existing data")
	}
}

func TestBackupCommands(t *testing.T) {
	tc := setupFile(t, "tally.json")
	if err := (&MealAddCmd{Name: "Apple", Calories: "95"}).Run(tc.Context); err != nil {
		t.Fatal(err)
	}
	if err := (&BackupCreateCmd{}).Run(tc.Context); err != nil {
		t.Fatal(err)
	}

	mgr, err := backupManager(tc.Context)
	if err != nil {
		t.Fatal(err)
	}
	backups, err := mgr.List()
	if err != nil || len(backups) != 1 {
		t.Fatalf("List = %v, %v", backups, err)
	}

	tc.out.Reset()
	if err := (&BackupListCmd{}).Run(tc.Context); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(tc.out.String(), filepath.Base(backups[0].Path)) {
		t.Errorf("backup list output:\n%s", tc.out.String())
	}

	if err := (&ResetCmd{Yes: true}).Run(tc.Context); err != nil {
		t.Fatal(err)
	}
	if err := (&BackupRestoreCmd{BackupFile: filepath.Base(backups[0].Path), Yes: true}).Run(tc.Context); err != nil {
		t.Fatalf("restore failed: %v", err)
	}
	if state := tc.state(t); len(state.Meals) != 1 || state.TotalCalories != 95 {
		t.Errorf("state after restore = %+v", state)
	}
}

func TestBackupNeedsFileStore(t *testing.T) {
	tc := setupMemory(t)
	if err := (&BackupCreateCmd{}).Run(tc.Context); err == nil {
		t.Error("expected backup of the memory store to fail")
	}
}
