package rlimit

// Infinity is RLIM_INFINITY
const Infinity = 1<<63 - 1
