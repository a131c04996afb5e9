package businessflow

import (
	"context"
	"math/rand"
	"sync"
	"testing"

	"github.com/DavidIrvine-TW/tombola/models"
	"github.com/DavidIrvine-TW/tombola/repository"
	testingutil "github.com/DavidIrvine-TW/tombola/testing"
	"github.com/DavidIrvine-TW/tombola/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBotdFlow(testDB *testingutil.TestDB, day utils.Day, seed int64) *BotdFlowImpl {
	beanRepo := repository.NewBeanRepository(testDB.DB)
	historyRepo := repository.NewBotdHistoryRepository(testDB.DB)
	flow := NewBotdFlow(beanRepo, historyRepo, testDB.DB, rand.New(rand.NewSource(seed))).(*BotdFlowImpl)
	flow.today = func() utils.Day { return day }
	return flow
}

func testMetadata() *ClientMetadata {
	m := NewClientMetadata("127.0.0.1", "test-agent")
	m.SetRequestID("test-request")
	return m
}

func TestBeanOfTheDay(t *testing.T) {
	day, err := utils.ParseDay("2026-06-10")
	require.NoError(t, err)

	err = testingutil.TestWithDB(func(testDB *testingutil.TestDB) error {
		fixtures := testingutil.NewTestFixtures(testDB)
		historyRepo := repository.NewBotdHistoryRepository(testDB.DB)

		t.Run("FirstCallSelectsAndRecords", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			a, err := fixtures.CreateTestBean(0, "Klugo")
			require.NoError(t, err)
			b, err := fixtures.CreateTestBean(1, "Zylar")
			require.NoError(t, err)

			flow := newTestBotdFlow(testDB, day, 1)
			resp, err := flow.BeanOfTheDay(context.Background(), testMetadata())
			require.NoError(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, day.String(), resp.Date)
			assert.True(t, resp.Bean.IsBotd)
			assert.Contains(t, []uint{a.ID, b.ID}, resp.Bean.ID)

			// Exactly one history row, pointing at the returned bean
			entry, err := historyRepo.ByDate(context.Background(), day.String())
			require.NoError(t, err)
			require.NotNil(t, entry)
			assert.Equal(t, resp.Bean.ID, entry.BeanID)

			count, err := historyRepo.Count(context.Background(), models.BotdHistoryFilter{})
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})

		t.Run("RepeatCallsReturnRecordedBean", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			_, err := fixtures.CreateTestBean(0, "Klugo")
			require.NoError(t, err)
			_, err = fixtures.CreateTestBean(1, "Zylar")
			require.NoError(t, err)
			_, err = fixtures.CreateTestBean(2, "Borado")
			require.NoError(t, err)

			flow := newTestBotdFlow(testDB, day, 2)
			first, err := flow.BeanOfTheDay(context.Background(), testMetadata())
			require.NoError(t, err)

			// Later calls re-read the recorded selection regardless of rng state
			for i := 0; i < 5; i++ {
				again, err := flow.BeanOfTheDay(context.Background(), testMetadata())
				require.NoError(t, err)
				assert.Equal(t, first.Bean.ID, again.Bean.ID)
			}

			count, err := historyRepo.Count(context.Background(), models.BotdHistoryFilter{})
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})

		t.Run("ExcludesYesterdaysBean", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			a, err := fixtures.CreateTestBean(0, "Klugo")
			require.NoError(t, err)
			b, err := fixtures.CreateTestBean(1, "Zylar")
			require.NoError(t, err)
			c, err := fixtures.CreateTestBean(2, "Borado")
			require.NoError(t, err)

			_, err = fixtures.CreateTestHistory(b.ID, day.Prev())
			require.NoError(t, err)

			// Every seed must avoid yesterday's bean
			for seed := int64(0); seed < 10; seed++ {
				require.NoError(t, testDB.DB.Exec("DELETE FROM botd_history WHERE date = ?", day.String()).Error)

				flow := newTestBotdFlow(testDB, day, seed)
				resp, err := flow.BeanOfTheDay(context.Background(), testMetadata())
				require.NoError(t, err)
				assert.NotEqual(t, b.ID, resp.Bean.ID)
				assert.Contains(t, []uint{a.ID, c.ID}, resp.Bean.ID)
			}
		})

		t.Run("SingleBeanCatalogRepeatsYesterday", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			only, err := fixtures.CreateTestBean(0, "Klugo")
			require.NoError(t, err)
			_, err = fixtures.CreateTestHistory(only.ID, day.Prev())
			require.NoError(t, err)

			flow := newTestBotdFlow(testDB, day, 3)
			resp, err := flow.BeanOfTheDay(context.Background(), testMetadata())
			require.NoError(t, err)
			assert.Equal(t, only.ID, resp.Bean.ID)
		})

		t.Run("ClearsStaleFlags", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			stale, err := fixtures.CreateTestBean(0, "Klugo")
			require.NoError(t, err)
			_, err = fixtures.CreateTestBean(1, "Zylar")
			require.NoError(t, err)
			_, err = fixtures.CreateTestBean(2, "Borado")
			require.NoError(t, err)

			// Simulate a leftover flag from a previous day
			require.NoError(t, testDB.DB.Exec("UPDATE beans SET is_botd = TRUE WHERE id = ?", stale.ID).Error)

			flow := newTestBotdFlow(testDB, day, 4)
			resp, err := flow.BeanOfTheDay(context.Background(), testMetadata())
			require.NoError(t, err)

			var flagged []models.Bean
			require.NoError(t, testDB.DB.Where("is_botd = TRUE").Find(&flagged).Error)
			require.Len(t, flagged, 1)
			assert.Equal(t, resp.Bean.ID, flagged[0].ID)
		})

		t.Run("EmptyCatalog", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())

			flow := newTestBotdFlow(testDB, day, 5)
			_, err := flow.BeanOfTheDay(context.Background(), testMetadata())
			require.Error(t, err)
			assert.True(t, IsNoBeansAvailable(err))
		})

		t.Run("ConcurrentFirstCallsConverge", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			for i := 0; i < 5; i++ {
				_, err := fixtures.CreateTestBean(i, "Bean")
				require.NoError(t, err)
			}

			const callers = 8
			results := make([]uint, callers)
			errs := make([]error, callers)

			var wg sync.WaitGroup
			for i := 0; i < callers; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					flow := newTestBotdFlow(testDB, day, int64(i))
					resp, err := flow.BeanOfTheDay(context.Background(), testMetadata())
					if err != nil {
						errs[i] = err
						return
					}
					results[i] = resp.Bean.ID
				}(i)
			}
			wg.Wait()

			for i := 0; i < callers; i++ {
				require.NoError(t, errs[i])
			}
			for i := 1; i < callers; i++ {
				assert.Equal(t, results[0], results[i], "all concurrent callers must agree on the day's bean")
			}

			count, err := historyRepo.Count(context.Background(), models.BotdHistoryFilter{})
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)
		})

		// Last subtest: dropping the FK alters the schema for the rest of
		// this test database.
		t.Run("DanglingHistoryRowIsAnIntegrityFailure", func(t *testing.T) {
			require.NoError(t, testDB.ClearAllTables())
			_, err := fixtures.CreateTestBean(0, "Klugo")
			require.NoError(t, err)

			// The FK normally makes this state unreachable; force it to prove
			// the flow refuses to substitute another bean.
			require.NoError(t, testDB.DB.Exec("ALTER TABLE botd_history DROP CONSTRAINT fk_botd_history_bean").Error)
			require.NoError(t, testDB.DB.Exec("INSERT INTO botd_history (bean_id, date) VALUES (?, ?)", 999999, day.String()).Error)

			flow := newTestBotdFlow(testDB, day, 6)
			_, err = flow.BeanOfTheDay(context.Background(), testMetadata())
			require.Error(t, err)
			assert.True(t, IsBotdHistoryCorrupt(err))

			// The broken row stays untouched and no flag is set
			count, err := historyRepo.Count(context.Background(), models.BotdHistoryFilter{})
			require.NoError(t, err)
			assert.Equal(t, int64(1), count)

			var flagged int64
			require.NoError(t, testDB.DB.Model(&models.Bean{}).Where("is_botd = TRUE").Count(&flagged).Error)
			assert.Equal(t, int64(0), flagged)
		})

		return nil
	})
	require.NoError(t, err)
}
