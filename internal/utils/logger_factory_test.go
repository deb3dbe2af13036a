package utils_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/astrofrog/batchpr/internal/utils"
)

const (
	supportedLevelCaseNameConstant    = "supported_level"
	unsupportedLevelCaseNameConstant  = "unsupported_level"
	unsupportedFormatCaseNameConstant = "unsupported_format"
	unsupportedLevelValueConstant     = "verbose"
	unsupportedFormatValueConstant    = "plaintext"
)

func TestLoggerFactoryCreateLogger(testInstance *testing.T) {
	testCases := []struct {
		name          string
		logLevel      utils.LogLevel
		logFormat     utils.LogFormat
		expectFailure bool
	}{
		{
			name:      supportedLevelCaseNameConstant,
			logLevel:  utils.LogLevelDebug,
			logFormat: utils.LogFormatConsole,
		},
		{
			name:          unsupportedLevelCaseNameConstant,
			logLevel:      utils.LogLevel(unsupportedLevelValueConstant),
			logFormat:     utils.LogFormatStructured,
			expectFailure: true,
		},
		{
			name:          unsupportedFormatCaseNameConstant,
			logLevel:      utils.LogLevelInfo,
			logFormat:     utils.LogFormat(unsupportedFormatValueConstant),
			expectFailure: true,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			loggerFactory := utils.NewLoggerFactory()
			logger, creationError := loggerFactory.CreateLogger(testCase.logLevel, testCase.logFormat)
			if testCase.expectFailure {
				require.Error(testInstance, creationError)
				require.Nil(testInstance, logger)
				return
			}
			require.NoError(testInstance, creationError)
			require.NotNil(testInstance, logger)
		})
	}
}
