package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func TestClampTopK(t *testing.T) {
	testCases := []struct {
		input    int
		expected int
	}{
		{-3, minTopK},
		{0, minTopK},
		{4, minTopK},
		{5, 5},
		{10, 10},
		{20, 20},
		{21, maxTopK},
		{1000, maxTopK},
	}

	for _, tc := range testCases {
		assert.Equal(t, tc.expected, clampTopK(tc.input), "input %d", tc.input)
	}
}

func TestTruncateForDisplay(t *testing.T) {
	assert.Equal(t, "short", truncateForDisplay("short", 10))
	assert.Equal(t, "exactly10!", truncateForDisplay("exactly10!", 10))
	assert.Equal(t, "0123456789...", truncateForDisplay("0123456789x", 10))
	assert.Equal(t, "日本語...", truncateForDisplay("日本語テキスト", 3))
}

func TestSearchCommandRequiresQuery(t *testing.T) {
	ran := false
	app := &cli.App{
		Name: "resumedex",
		Commands: []*cli.Command{
			{
				Name: "search",
				Action: func(c *cli.Context) error {
					ran = true
					return searchCommand(c)
				},
				Flags: append(dataFlags(), aiFlags()...),
			},
		},
	}

	err := app.Run([]string{"resumedex", "search"})
	require.Error(t, err)
	assert.True(t, ran)
	assert.Contains(t, err.Error(), "query")
}

func TestDataFlagDefaults(t *testing.T) {
	flags := dataFlags()

	var dataFlag, storageFlag *cli.StringFlag
	for _, flag := range flags {
		if f, ok := flag.(*cli.StringFlag); ok {
			switch f.Name {
			case "data":
				dataFlag = f
			case "storage":
				storageFlag = f
			}
		}
	}

	require.NotNil(t, dataFlag)
	assert.Equal(t, "./data", dataFlag.Value)
	assert.Contains(t, dataFlag.Aliases, "d")

	require.NotNil(t, storageFlag)
	assert.Equal(t, "./resumedex_db", storageFlag.Value)
}

func TestAIFlagDefaults(t *testing.T) {
	flags := aiFlags()

	var modelFlag, keyFlag *cli.StringFlag
	var batchFlag *cli.IntFlag
	for _, flag := range flags {
		switch f := flag.(type) {
		case *cli.StringFlag:
			switch f.Name {
			case "embedding-model":
				modelFlag = f
			case "api-key":
				keyFlag = f
			}
		case *cli.IntFlag:
			if f.Name == "batch-size" {
				batchFlag = f
			}
		}
	}

	require.NotNil(t, modelFlag)
	assert.Equal(t, "text-embedding-3-small", modelFlag.Value)

	require.NotNil(t, keyFlag)
	assert.Empty(t, keyFlag.Value, "api-key must not have a baked-in default")

	require.NotNil(t, batchFlag)
	assert.Equal(t, 32, batchFlag.Value)
}

func TestSetupLogger(t *testing.T) {
	newApp := func() *cli.App {
		return &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "log-level",
					Aliases: []string{"l"},
					Value:   "info",
				},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error {
				return nil
			},
		}
	}

	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error"} {
			t.Run(level, func(t *testing.T) {
				err := newApp().Run([]string{"test", "--log-level", level})
				require.NoError(t, err)
			})
		}
	})

	t.Run("case insensitive log levels", func(t *testing.T) {
		for _, level := range []string{"DEBUG", "Info", "WaRn", "ERROR"} {
			t.Run(level, func(t *testing.T) {
				err := newApp().Run([]string{"test", "--log-level", level})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := newApp().Run([]string{"test", "--log-level", "invalid"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
		assert.Contains(t, err.Error(), "invalid")
	})

	t.Run("log-level flag has alias -l", func(t *testing.T) {
		app := newApp()
		app.Action = func(c *cli.Context) error {
			assert.Equal(t, "debug", c.String("log-level"))
			return nil
		}
		err := app.Run([]string{"test", "-l", "debug"})
		require.NoError(t, err)
	})
}

func TestMain(m *testing.M) {
	code := m.Run()
	os.Exit(code)
}
