package scaffold

// unityHeader is a minimal Unity-compatible test header staged into C
// workspaces so generated Unity-style tests compile without vendoring the
// real framework. Failure lines follow Unity's FILE:LINE:TEST:FAIL format,
// which the C result parser recognizes. Weak definitions keep the header
// safe to include from both the test file and the generated runner.
const unityHeader = `#ifndef UNITY_H
#define UNITY_H

#include <stdio.h>
#include <string.h>

__attribute__((weak)) int UnityTestsRun = 0;
__attribute__((weak)) int UnityTestsFailed = 0;
__attribute__((weak)) int UnityCurrentFailed = 0;
__attribute__((weak)) const char *UnityCurrentTest = "";

__attribute__((weak)) void setUp(void) {}
__attribute__((weak)) void tearDown(void) {}

#define UNITY_BEGIN() (UnityTestsRun = 0, UnityTestsFailed = 0)

#define UNITY_END() (printf("-----------------------\n%d Tests %d Failures 0 Ignored\n%s\n", \
    UnityTestsRun, UnityTestsFailed, UnityTestsFailed ? "FAIL" : "OK"), UnityTestsFailed)

#define RUN_TEST(func) do { \
    UnityCurrentTest = #func; \
    UnityCurrentFailed = 0; \
    UnityTestsRun++; \
    setUp(); \
    func(); \
    tearDown(); \
    if (UnityCurrentFailed) { \
        UnityTestsFailed++; \
    } else { \
        printf("%s:%d:%s:PASS\n", __FILE__, __LINE__, #func); \
    } \
} while (0)

#define UNITY_TEST_FAILED() (UnityCurrentFailed = 1)

#define TEST_ASSERT_EQUAL(expected, actual) do { \
    long unity_exp = (long)(expected); \
    long unity_act = (long)(actual); \
    if (unity_exp != unity_act) { \
        printf("%s:%d:%s:FAIL: Expected %ld Was %ld\n", __FILE__, __LINE__, UnityCurrentTest, unity_exp, unity_act); \
        UNITY_TEST_FAILED(); \
    } \
} while (0)

#define TEST_ASSERT_EQUAL_INT(expected, actual) TEST_ASSERT_EQUAL(expected, actual)

#define TEST_ASSERT_NOT_EQUAL(expected, actual) do { \
    long unity_exp = (long)(expected); \
    long unity_act = (long)(actual); \
    if (unity_exp == unity_act) { \
        printf("%s:%d:%s:FAIL: Expected Not-Equal %ld Was %ld\n", __FILE__, __LINE__, UnityCurrentTest, unity_exp, unity_act); \
        UNITY_TEST_FAILED(); \
    } \
} while (0)

#define TEST_ASSERT_TRUE(condition) do { \
    if (!(condition)) { \
        printf("%s:%d:%s:FAIL: Expected TRUE Was FALSE\n", __FILE__, __LINE__, UnityCurrentTest); \
        UNITY_TEST_FAILED(); \
    } \
} while (0)

#define TEST_ASSERT_FALSE(condition) do { \
    if (condition) { \
        printf("%s:%d:%s:FAIL: Expected FALSE Was TRUE\n", __FILE__, __LINE__, UnityCurrentTest); \
        UNITY_TEST_FAILED(); \
    } \
} while (0)

#define TEST_ASSERT_NULL(pointer) do { \
    if ((pointer) != NULL) { \
        printf("%s:%d:%s:FAIL: Expected NULL\n", __FILE__, __LINE__, UnityCurrentTest); \
        UNITY_TEST_FAILED(); \
    } \
} while (0)

#define TEST_ASSERT_NOT_NULL(pointer) do { \
    if ((pointer) == NULL) { \
        printf("%s:%d:%s:FAIL: Expected Non-NULL\n", __FILE__, __LINE__, UnityCurrentTest); \
        UNITY_TEST_FAILED(); \
    } \
} while (0)

#define TEST_ASSERT_EQUAL_STRING(expected, actual) do { \
    const char *unity_exp = (expected); \
    const char *unity_act = (actual); \
    if (unity_exp == NULL || unity_act == NULL || strcmp(unity_exp, unity_act) != 0) { \
        printf("%s:%d:%s:FAIL: Expected '%s' Was '%s'\n", __FILE__, __LINE__, UnityCurrentTest, \
            unity_exp ? unity_exp : "(null)", unity_act ? unity_act : "(null)"); \
        UNITY_TEST_FAILED(); \
    } \
} while (0)

#define TEST_FAIL_MESSAGE(message) do { \
    printf("%s:%d:%s:FAIL: %s\n", __FILE__, __LINE__, UnityCurrentTest, (message)); \
    UNITY_TEST_FAILED(); \
} while (0)

#endif
`
