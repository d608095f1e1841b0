package rlimit

// Infinity is RLIM_INFINITY
const Infinity = ^uint64(0)
